package intake

// Step is a position in the fixed wizard sequence
type Step int

// The wizard's fixed step order
const (
	StepIdentity Step = iota + 1
	StepParties
	StepNarrative
	StepAttachment
)

// LastStep is the terminal step whose action is submit rather than advance
const LastStep = StepAttachment

// Check is the outcome of a step gate. A failed check carries a
// human-readable reason; it is reported, never fatal.
type Check struct {
	OK     bool
	Reason string
}

func ok() Check { return Check{OK: true} }

func notOK(reason string) Check { return Check{OK: false, Reason: reason} }

// CanAdvance decides whether leaving the given step is permitted.
// authEmail is the address supplied by the identity provider and stands in
// for a blank email field on the identity step. The parties/violations step
// has no gate; drafts may advance with every list empty.
func CanAdvance(step Step, d *Draft, authEmail string) Check {
	switch step {
	case StepIdentity:
		if d.FirstName == "" {
			return notOK("first name is required")
		}
		if d.LastName == "" {
			return notOK("last name is required")
		}
		if d.Email == "" && authEmail == "" {
			return notOK("email is required")
		}
		return ok()
	case StepNarrative:
		if d.Subject == "" {
			return notOK("subject is required")
		}
		if d.Description == "" {
			return notOK("description is required")
		}
		return ok()
	default:
		return ok()
	}
}
