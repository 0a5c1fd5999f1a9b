// Package browser reads and drives the live dashboard through the Chrome
// DevTools Protocol.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/storage"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
	"github.com/nekogravitycat/roominglist-verifier/internal/verify"
)

var ErrElementNotFound = errors.New("element not found")

const (
	viewportWidth  = 1440
	viewportHeight = 900
)

type Options struct {
	DashboardURL string
	// CDPURL attaches to a running browser; empty launches headless Chrome.
	CDPURL    string
	Selectors Selectors
	// StepTimeout bounds every browser round trip.
	StepTimeout time.Duration
	Evidence    *storage.Evidence
}

// Observer implements verify.Observer against one browser tab.
type Observer struct {
	opts   Options
	selJS  string
	tabCtx context.Context
	cancel []context.CancelFunc
}

var (
	_ verify.Observer    = (*Observer)(nil)
	_ verify.Snapshotter = (*Observer)(nil)
)

// New connects to (or launches) a browser and opens a tab. Close releases it.
func New(ctx context.Context, opts Options) (*Observer, error) {
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = 15 * time.Second
	}
	if err := opts.Selectors.Validate(); err != nil {
		return nil, err
	}
	selJS, err := json.Marshal(opts.Selectors)
	if err != nil {
		return nil, fmt.Errorf("encode selectors: %w", err)
	}

	o := &Observer{opts: opts, selJS: string(selJS)}

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if opts.CDPURL != "" {
		log.Info().Str("url", opts.CDPURL).Msg("connecting to browser")
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, opts.CDPURL)
	} else {
		log.Info().Msg("launching headless browser")
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.WindowSize(viewportWidth, viewportHeight),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		if os.Geteuid() == 0 {
			allocOpts = append(allocOpts, chromedp.NoSandbox)
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, allocOpts...)
	}
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	o.tabCtx = tabCtx
	o.cancel = []context.CancelFunc{tabCancel, allocCancel}

	// same layout whether the browser was launched or attached to
	if err := chromedp.Run(tabCtx, emulation.SetDeviceMetricsOverride(viewportWidth, viewportHeight, 1, false)); err != nil {
		o.Close()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	return o, nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func (o *Observer) Close() {
	for _, cancel := range o.cancel {
		cancel()
	}
}

// run executes actions in the tab, bounded by the step timeout and by ctx.
func (o *Observer) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(o.tabCtx, o.opts.StepTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// eval runs a script body with `sel` bound to the selector set.
func (o *Observer) eval(ctx context.Context, body string, res any) error {
	js := fmt.Sprintf("(() => { const sel = %s; %s })()", o.selJS, body)
	return o.run(ctx, chromedp.Evaluate(js, res))
}

// waitFor polls a boolean script until it is true or the step timeout ends.
func (o *Observer) waitFor(ctx context.Context, what, body string) error {
	deadline := time.Now().Add(o.opts.StepTimeout)
	for {
		var ok bool
		if err := o.eval(ctx, body, &ok); err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for %s", what)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (o *Observer) Reload(ctx context.Context) error {
	return o.run(ctx,
		chromedp.Navigate(o.opts.DashboardURL),
		chromedp.WaitVisible(o.opts.Selectors.Heading, chromedp.ByQuery),
	)
}

type rawCard struct {
	Name      string `json:"name"`
	Agreement string `json:"agreement"`
	CutOffDay string `json:"cutOffDay"`
	Bookings  string `json:"bookings"`
	Status    string `json:"status"`
}

const cardsJS = `
const text = (root, q) => {
  if (!q) return "";
  const el = root.querySelector(q);
  return el ? el.textContent.trim() : "";
};
return Array.from(document.querySelectorAll(sel.card)).map(card => ({
  name: text(card, sel.cardName),
  agreement: text(card, sel.cardAgreement),
  cutOffDay: text(card, sel.cardCutOffDay),
  bookings: text(card, sel.viewBookings),
  status: text(card, sel.statusBadge),
}));`

func (o *Observer) Cards(ctx context.Context) ([]verify.ObservedCard, error) {
	var raw []rawCard
	if err := o.eval(ctx, cardsJS, &raw); err != nil {
		return nil, fmt.Errorf("read cards: %w", err)
	}
	cards := make([]verify.ObservedCard, len(raw))
	for i, r := range raw {
		cards[i] = verify.ObservedCard{
			RFPName:       NormalizeRFPName(r.Name),
			AgreementType: ParseAgreement(r.Agreement),
			CutOffDay:     ParseCutOffDay(r.CutOffDay),
			BookingCount:  ParseBookingCount(r.Bookings),
			Status:        r.Status,
		}
	}
	return cards, nil
}

func (o *Observer) VisibleNames(ctx context.Context) ([]string, error) {
	cards, err := o.Cards(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.RFPName
	}
	return names, nil
}

// EventHeadings returns the event group headings in page order.
func (o *Observer) EventHeadings(ctx context.Context) ([]string, error) {
	var out []string
	err := o.eval(ctx, `return Array.from(document.querySelectorAll(sel.eventHeading)).map(e => e.textContent.trim());`, &out)
	return out, err
}

func (o *Observer) EmptyStateShown(ctx context.Context) (bool, error) {
	var shown bool
	err := o.eval(ctx, `return document.body.innerText.includes(sel.emptyStateText);`, &shown)
	return shown, err
}

func (o *Observer) StatusBadges(ctx context.Context) ([]string, error) {
	var out []string
	err := o.eval(ctx, `return Array.from(document.querySelectorAll(sel.statusBadge)).map(e => e.textContent.trim());`, &out)
	return out, err
}

const modalTitleJS = `
const isTitle = e => e.textContent.trim().replace(/[×✕]$/, "").trim() === sel.modalTitle;
const title = Array.from(document.querySelectorAll("div, h1, h2, h3, h4"))
  .find(e => isTitle(e) && e.querySelector("button"));
`

const openBookingsJS = `
const name = %s;
const strip = s => s.trim().replace(/^\[/, "").replace(/\]$/, "").trim();
const card = Array.from(document.querySelectorAll(sel.card))
  .find(c => { const n = c.querySelector(sel.cardName); return n && strip(n.textContent) === name; });
if (!card) return false;
const btn = card.querySelector(sel.viewBookings);
if (!btn) return false;
btn.click();
return true;`

const bookingRowsJS = `
const text = (root, q) => {
  if (!q) return "";
  const el = root.querySelector(q);
  return el ? el.textContent.trim() : "";
};
return Array.from(document.querySelectorAll(sel.bookingRow)).map(row => ({
  text: row.innerText,
  guestName: text(row, sel.bookingGuestName),
  phone: text(row, sel.bookingPhone),
  checkIn: text(row, sel.bookingCheckIn),
  checkOut: text(row, sel.bookingCheckOut),
}));`

type rawBooking struct {
	Text      string `json:"text"`
	GuestName string `json:"guestName"`
	Phone     string `json:"phone"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
}

func (o *Observer) Bookings(ctx context.Context, rfpName string) ([]verify.ObservedBooking, error) {
	var clicked bool
	if err := o.eval(ctx, fmt.Sprintf(openBookingsJS, mustJSON(rfpName)), &clicked); err != nil {
		return nil, err
	}
	if !clicked {
		return nil, fmt.Errorf("%w: bookings button of %q", ErrElementNotFound, rfpName)
	}
	if err := o.waitFor(ctx, "bookings modal", modalTitleJS+"return !!title;"); err != nil {
		return nil, err
	}

	var raw []rawBooking
	if err := o.eval(ctx, bookingRowsJS, &raw); err != nil {
		return nil, fmt.Errorf("read bookings: %w", err)
	}
	rows := make([]verify.ObservedBooking, len(raw))
	for i, r := range raw {
		rows[i] = ParseBookingRow(r.Text)
		if r.GuestName != "" {
			rows[i].GuestName = r.GuestName
		}
		if r.Phone != "" {
			rows[i].GuestPhoneNumber = r.Phone
		}
		if r.CheckIn != "" {
			rows[i].CheckIn = r.CheckIn
		}
		if r.CheckOut != "" {
			rows[i].CheckOut = r.CheckOut
		}
	}

	closeJS := modalTitleJS + `if (!title) return false; title.querySelector("button").click(); return true;`
	var closed bool
	if err := o.eval(ctx, closeJS, &closed); err != nil {
		return rows, err
	}
	if err := o.waitFor(ctx, "bookings modal to close", modalTitleJS+"return !title;"); err != nil {
		return rows, err
	}
	return rows, nil
}

// Search replaces the search box content with term, one key at a time.
func (o *Observer) Search(ctx context.Context, term string) error {
	q := o.opts.Selectors.SearchInput
	return o.run(ctx,
		chromedp.WaitVisible(q, chromedp.ByQuery),
		chromedp.Focus(q, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf("document.querySelector(%s).select()", mustJSON(q)), nil),
		chromedp.KeyEvent(kb.Backspace),
		chromedp.SendKeys(q, term, chromedp.ByQuery),
	)
}

const clickButtonJS = `
const label = %s;
const btn = Array.from(document.querySelectorAll("button"))
  .find(b => b.textContent.trim().toLowerCase() === label.toLowerCase());
if (!btn) return false;
btn.click();
return true;`

func (o *Observer) clickButton(ctx context.Context, label string) error {
	var clicked bool
	if err := o.eval(ctx, fmt.Sprintf(clickButtonJS, mustJSON(label)), &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("%w: button %q", ErrElementNotFound, label)
	}
	return nil
}

const panelOpenJS = `return Object.values(sel.checkboxes).some(q => !!document.querySelector(q));`

func (o *Observer) OpenFilters(ctx context.Context) error {
	if err := o.clickButton(ctx, o.opts.Selectors.FiltersButton); err != nil {
		return err
	}
	return o.waitFor(ctx, "filter dropdown", panelOpenJS)
}

type rawPanel struct {
	Open    bool     `json:"open"`
	Checked []string `json:"checked"`
}

const panelJS = `
const checked = [];
let open = false;
for (const [name, q] of Object.entries(sel.checkboxes)) {
  const box = document.querySelector(q);
  if (!box) continue;
  open = true;
  if (box.querySelector(sel.checkedMarker)) checked.push(name);
}
return { open, checked };`

func (o *Observer) FilterPanel(ctx context.Context) (verify.ObservedPanel, error) {
	var raw rawPanel
	if err := o.eval(ctx, panelJS, &raw); err != nil {
		return verify.ObservedPanel{}, err
	}
	// keep panel order so discrepancies read the same way as the dropdown
	p := verify.ObservedPanel{IsOpen: raw.Open}
	seen := make(map[string]bool, len(raw.Checked))
	for _, c := range raw.Checked {
		seen[c] = true
	}
	for _, st := range store.AllStatuses {
		if seen[statusKey(st)] {
			p.Checked = append(p.Checked, st.String())
		}
	}
	return p, nil
}

func (o *Observer) ToggleStatus(ctx context.Context, st store.Status) error {
	q, err := o.opts.Selectors.Checkbox(st)
	if err != nil {
		return err
	}
	return o.run(ctx, chromedp.Click(q, chromedp.ByQuery))
}

func (o *Observer) SaveFilters(ctx context.Context) error {
	if err := o.clickButton(ctx, o.opts.Selectors.SaveButton); err != nil {
		return err
	}
	return o.waitFor(ctx, "filter dropdown to close", "return !(() => { "+panelOpenJS+" })();")
}

// DismissFilters closes the dropdown without saving: Escape first, then the
// Filters button if the dropdown stayed open.
func (o *Observer) DismissFilters(ctx context.Context) error {
	if err := o.run(ctx, chromedp.KeyEvent(kb.Escape)); err != nil {
		return err
	}
	var open bool
	if err := o.eval(ctx, panelOpenJS, &open); err != nil {
		return err
	}
	if !open {
		return nil
	}
	if err := o.clickButton(ctx, o.opts.Selectors.FiltersButton); err != nil {
		return err
	}
	return o.waitFor(ctx, "filter dropdown to close", "return !(() => { "+panelOpenJS+" })();")
}

// Snapshot saves a screenshot of the current page as evidence.
func (o *Observer) Snapshot(ctx context.Context, name string) (string, error) {
	if o.opts.Evidence == nil {
		return "", nil
	}
	var png []byte
	if err := o.run(ctx, chromedp.CaptureScreenshot(&png)); err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	art, err := o.opts.Evidence.SaveScreenshot(ctx, name, png)
	if err != nil {
		return "", err
	}
	return art.Screenshot, nil
}
