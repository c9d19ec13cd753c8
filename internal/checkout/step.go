package checkout

type Step string

const (
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

func (s Step) IsTerminal() bool {
	return s == StepConfirmation
}

func (s Step) String() string {
	return string(s)
}
