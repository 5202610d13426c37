// Package intake implements the multi-step complaint-intake workflow: the
// in-progress draft, the step validator, the wizard controller and the
// submission pipeline that turns a finished draft into a stored complaint.
package intake

import "fmt"

// ViolationOptions is the fixed list the parties/violations step offers.
// Membership in a draft is toggled, never free-typed.
var ViolationOptions = []string{
	"Due Process Violation",
	"First Amendment Retaliation",
	"Fourth Amendment Violation",
	"Fourteenth Amendment Violation",
	"Americans with Disabilities Act Violation",
	"CAPTA Violation",
}

// IsViolationOption reports whether the given option is part of the fixed list
func IsViolationOption(option string) bool {
	for _, v := range ViolationOptions {
		if v == option {
			return true
		}
	}
	return false
}

// Attachment is the single optional file carried by a draft. Re-selecting a
// file replaces it wholesale.
type Attachment struct {
	Name      string
	MediaType string
	Data      []byte
}

// ScalarField names a plain string field on the draft
type ScalarField int

// Scalar draft fields
const (
	FieldFirstName ScalarField = iota
	FieldLastName
	FieldEmail
	FieldPhone
	FieldSubject
	FieldDescription
)

// ListField names one of the repeatable list fields on the draft
type ListField int

// Repeatable draft fields
const (
	ListClaimants ListField = iota
	ListDefendants
	ListWitnesses
	ListCaseNumbers
)

var scalarFieldNames = map[string]ScalarField{
	"firstName":   FieldFirstName,
	"lastName":    FieldLastName,
	"email":       FieldEmail,
	"phone":       FieldPhone,
	"subject":     FieldSubject,
	"description": FieldDescription,
}

var listFieldNames = map[string]ListField{
	"claimants":   ListClaimants,
	"defendants":  ListDefendants,
	"witnesses":   ListWitnesses,
	"caseNumbers": ListCaseNumbers,
}

// ScalarFieldByName resolves a wire field name to its typed scalar field
func ScalarFieldByName(name string) (ScalarField, bool) {
	f, ok := scalarFieldNames[name]
	return f, ok
}

// ListFieldByName resolves a wire field name to its typed list field
func ListFieldByName(name string) (ListField, bool) {
	f, ok := listFieldNames[name]
	return f, ok
}

// Draft holds one in-progress complaint. It lives for a single wizard
// session and is discarded on successful submit or session expiry; it is
// never persisted.
type Draft struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Claimants   []string
	Defendants  []string
	Witnesses   []string
	CaseNumbers []string
	// LegalViolations is a set with stable insertion order
	LegalViolations []string
	Subject         string
	Description     string
	File            *Attachment
	Consent         bool
}

// NewDraft returns an empty draft. Each repeatable list starts with a single
// blank entry, mirroring the form's initial row.
func NewDraft() *Draft {
	return &Draft{
		Claimants:       []string{""},
		Defendants:      []string{""},
		Witnesses:       []string{""},
		CaseNumbers:     []string{""},
		LegalViolations: []string{},
	}
}

// SetScalar replaces the value of one scalar field
func (d *Draft) SetScalar(f ScalarField, value string) {
	switch f {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldSubject:
		d.Subject = value
	case FieldDescription:
		d.Description = value
	}
}

func (d *Draft) list(f ListField) *[]string {
	switch f {
	case ListClaimants:
		return &d.Claimants
	case ListDefendants:
		return &d.Defendants
	case ListWitnesses:
		return &d.Witnesses
	default:
		return &d.CaseNumbers
	}
}

// SetListEntry replaces one entry of a repeatable list. Blank values are
// permitted; entries are never removed.
func (d *Draft) SetListEntry(f ListField, index int, value string) error {
	l := d.list(f)
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("list index %d out of range (len %d)", index, len(*l))
	}
	(*l)[index] = value
	return nil
}

// AppendListEntry adds one blank entry to a repeatable list
func (d *Draft) AppendListEntry(f ListField) {
	l := d.list(f)
	*l = append(*l, "")
}

// ToggleViolation adds the option if absent and removes it if present.
// Toggling twice restores the original set.
func (d *Draft) ToggleViolation(option string) {
	for i, v := range d.LegalViolations {
		if v == option {
			d.LegalViolations = append(d.LegalViolations[:i], d.LegalViolations[i+1:]...)
			return
		}
	}
	d.LegalViolations = append(d.LegalViolations, option)
}

// Attach sets the draft's single attachment, replacing any previous one
func (d *Draft) Attach(name, mediaType string, data []byte) {
	d.File = &Attachment{Name: name, MediaType: mediaType, Data: data}
}

// SetConsent records the consent checkbox
func (d *Draft) SetConsent(given bool) {
	d.Consent = given
}

// Clone returns a copy safe to read while the original keeps mutating.
// Slice contents are copied; attachment bytes are shared since the pipeline
// only reads them.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Claimants = append([]string(nil), d.Claimants...)
	c.Defendants = append([]string(nil), d.Defendants...)
	c.Witnesses = append([]string(nil), d.Witnesses...)
	c.CaseNumbers = append([]string(nil), d.CaseNumbers...)
	c.LegalViolations = append([]string(nil), d.LegalViolations...)
	if d.File != nil {
		f := *d.File
		c.File = &f
	}
	return &c
}
