package core

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"plugsetup/pkg/schema"
)

// SetupWizard drives an interactive terminal walkthrough of a plugin's setup
// schema against the dispatcher. Each field is prompted, collected, and saved
// in turn; the user confirms or discards the whole setup at the end.
type SetupWizard struct {
	Dispatcher *Dispatcher
	In         io.Reader
	Out        io.Writer
}

// NewSetupWizard creates a wizard over the given dispatcher and terminal
// streams.
func NewSetupWizard(dispatcher *Dispatcher, in io.Reader, out io.Writer) *SetupWizard {
	return &SetupWizard{Dispatcher: dispatcher, In: in, Out: out}
}

// Run executes the interactive setup loop for one plugin. The session is
// completed on confirmation and rolled back on refusal, so an abandoned run
// leaves no residue.
func (w *SetupWizard) Run(ctx context.Context, sessionID, pluginID string, configSchema schema.ConfigSchema) error {
	reader := bufio.NewReader(w.In)

	res := w.Dispatcher.Begin(ctx, BeginRequest{
		SessionID: sessionID,
		PluginID:  pluginID,
		Schema:    configSchema,
	})
	if res.IsError {
		return fmt.Errorf("begin setup: %s", res.Text())
	}
	fmt.Fprintf(w.Out, "Configuring %s\n\n", pluginID)

	for _, field := range configSchema.Fields {
		ask := w.Dispatcher.Ask(ctx, AskRequest{SessionID: sessionID, Field: field.Name})
		if ask.IsError {
			return fmt.Errorf("prompt for %s: %s", field.Name, ask.Text())
		}

		// Re-prompt until the value is accepted. Optional fields may be
		// skipped by entering nothing.
		for {
			fmt.Fprintf(w.Out, "%s\n> ", ask.Text())
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read input: %w", err)
			}
			raw := strings.TrimSpace(line)

			if raw == "" && !field.Required {
				fmt.Fprintln(w.Out, "Skipped.")
				break
			}

			save := w.Dispatcher.SaveConfig(ctx, SaveConfigRequest{
				SessionID: sessionID,
				Key:       field.Name,
				Value:     parseInput(&field, raw),
			})
			if save.IsError {
				fmt.Fprintf(w.Out, "%s\n", save.Text())
				continue
			}
			break
		}
	}

	fmt.Fprint(w.Out, "\nApply this configuration? [yes/no]: ")
	answer, _ := reader.ReadString('\n')

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		res := w.Dispatcher.Complete(ctx, CompleteRequest{SessionID: sessionID})
		if res.IsError {
			return fmt.Errorf("complete setup: %s", res.Text())
		}
		fmt.Fprintf(w.Out, "%s\n", res.Text())
		return nil

	default:
		res := w.Dispatcher.Rollback(ctx, RollbackRequest{SessionID: sessionID})
		if res.IsError {
			fmt.Fprintf(w.Out, "Setup discarded with warnings:\n%s\n", res.Text())
			return nil
		}
		fmt.Fprintln(w.Out, "Setup discarded.")
		return nil
	}
}

// parseInput converts raw terminal input into the value kind the field
// expects. Unparseable numbers and booleans fall back to the raw string so
// the field validator reports the problem.
func parseInput(field *schema.ConfigField, raw string) schema.Value {
	switch field.Type {
	case schema.FieldCheckbox:
		if b, err := strconv.ParseBool(raw); err == nil {
			return schema.BoolValue(b)
		}
	case schema.FieldNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return schema.NumberValue(n)
		}
	}
	return schema.StringValue(raw)
}
