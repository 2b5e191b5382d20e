package interfaces

// Prompter supplies interactive line input when the environment leaves a
// credential or verification code unset. Implementations block until a
// line arrives.
type Prompter interface {
	Prompt(label string) (string, error)
}
