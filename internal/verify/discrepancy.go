// Package verify compares the expected dashboard state computed from the data
// store with what an Observer reads from the rendered dashboard.
package verify

import "fmt"

type Kind string

const (
	KindCountMismatch Kind = "count_mismatch"
	KindFieldMismatch Kind = "field_mismatch"
	KindMissing       Kind = "missing"
	KindUnexpected    Kind = "unexpected"
	KindEmptyState    Kind = "empty_state"
	KindFilterPanel   Kind = "filter_panel"
	KindStatus        Kind = "status"
	KindGrew          Kind = "grew"
	KindOrder         Kind = "order"
	KindUnknown       Kind = "unknown_rooming_list"
)

// Discrepancy is one difference between expected and observed state.
type Discrepancy struct {
	Kind     Kind   `json:"kind"`
	Subject  string `json:"subject,omitempty"`
	Field    string `json:"field,omitempty"`
	Index    int    `json:"index,omitempty"`
	Expected string `json:"expected"`
	Observed string `json:"observed"`
}

func (d Discrepancy) String() string {
	where := d.Subject
	if d.Field != "" {
		if d.Index > 0 {
			where = fmt.Sprintf("%s row %d %s", where, d.Index, d.Field)
		} else {
			where = fmt.Sprintf("%s %s", where, d.Field)
		}
	}
	if where == "" {
		return fmt.Sprintf("%s: expected %q, observed %q", d.Kind, d.Expected, d.Observed)
	}
	return fmt.Sprintf("%s [%s]: expected %q, observed %q", d.Kind, where, d.Expected, d.Observed)
}
