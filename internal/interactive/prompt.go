package interactive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// IsTerminal reports whether stdin is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PrintSummary writes the transaction about to be sent.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\nSubmitting transaction:\n")
	fmt.Fprintf(w, "  Chain:  %s\n", s.Chain)
	if s.From != "" {
		fmt.Fprintf(w, "  From:   %s\n", s.From)
	}
	fmt.Fprintf(w, "  To:     %s\n", s.To)
	if s.Method != "" {
		fmt.Fprintf(w, "  Method: %s(%s)\n", s.Method, strings.Join(s.Args, ", "))
	}
	fmt.Fprintf(w, "  Value:  %s\n", s.Value)
	if s.Confirmations > 0 {
		fmt.Fprintf(w, "  Safe after %d confirmations\n", s.Confirmations)
	}
	fmt.Fprintln(w)
}

// ConfirmSubmission prints the summary and asks the user to proceed.
func ConfirmSubmission(s Summary) (bool, error) {
	PrintSummary(os.Stdout, s)

	prompt := promptui.Prompt{
		Label:     "Send transaction",
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, handleInterruptError(err)
	}

	return true, nil
}

// PromptPassphrase reads a keystore passphrase without echoing it.
func PromptPassphrase(path string) (string, error) {
	if !IsTerminal() {
		return "", fmt.Errorf("keystore %s needs a passphrase but stdin is not a terminal", path)
	}

	fmt.Fprintf(os.Stderr, "Passphrase for %s: ", path)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(data), nil
}

// SelectMethod prompts the user to pick one of items.
func SelectMethod(items []MethodItem) (MethodItem, error) {
	if len(items) == 0 {
		return MethodItem{}, fmt.Errorf("contract has no state-changing methods")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Signature | cyan }}{{ if .Payable }} {{ \"(payable)\" | yellow }}{{ end }}",
		Inactive: "  {{ .Signature }}{{ if .Payable }} {{ \"(payable)\" | faint }}{{ end }}",
		Selected: "✓ {{ .Name | green }}",
	}

	searcher := func(input string, index int) bool {
		name := strings.ToLower(items[index].Name)
		return strings.Contains(name, strings.ToLower(strings.TrimSpace(input)))
	}

	prompt := promptui.Select{
		Label:     "Select method",
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return MethodItem{}, handleInterruptError(err)
	}
	return items[index], nil
}

// PromptArgument asks for one method input.
func PromptArgument(arg ArgumentItem) (string, error) {
	validate := func(input string) error {
		if !arg.IsList() && strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s cannot be empty", arg.Name)
		}
		return nil
	}

	prompt := promptui.Prompt{
		Label:     arg.Label(),
		Validate:  validate,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ " + arg.Name + ": ",
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handleInterruptError(err)
	}
	return strings.TrimSpace(result), nil
}

// PromptValue asks for the native value to attach to a payable call.
func PromptValue(defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   "Value (native units)",
		Default: defaultValue,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", handleInterruptError(err)
	}
	return strings.TrimSpace(result), nil
}
