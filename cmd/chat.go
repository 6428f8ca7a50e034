package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/karbar/resumeforge/pkg/config"
	"github.com/karbar/resumeforge/pkg/conversation"
)

//nolint:gochecknoglobals // Cobra boilerplate
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the resume builder on the terminal",
	Long: `Run the full conversation locally on stdin/stdout.

Choices are shown as a numbered list; type the number to pick one, or type
free text to answer a question. Generated files are written to the current
directory. Type /quit to leave.`,
	RunE: runChat,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(chatCmd)
}

// chatPrinter renders controller responses and remembers the last offered
// choices so numeric input can be mapped back to choice IDs.
type chatPrinter struct {
	choices []conversation.Choice
}

func (p *chatPrinter) print(resp conversation.Response) {
	for _, msg := range resp.Messages {
		fmt.Println()
		fmt.Println(msg.Text)
		if len(msg.Choices) > 0 {
			p.choices = msg.Choices
			for i, choice := range msg.Choices {
				fmt.Printf("  %d. %s\n", i+1, choice.Label)
			}
		}
	}

	if resp.Document != nil {
		err := os.WriteFile(resp.Document.Filename, resp.Document.Data, 0600)
		if err != nil {
			fmt.Printf("(could not write %s: %v)\n", resp.Document.Filename, err)
		} else {
			fmt.Printf("(saved %s)\n", resp.Document.Filename)
		}
	}
}

func runChat(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	printer := &chatPrinter{}
	notify := func(_ string, resp conversation.Response) {
		printer.print(resp)
		fmt.Print("> ")
	}

	controller, store, err := buildController(cfg, notify)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	ctx := context.Background()
	const userID = "local"

	printer.print(controller.OnText(ctx, userID, "/start"))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" || line == "/exit" {
			break
		}

		var resp conversation.Response
		if n, convErr := strconv.Atoi(line); convErr == nil && n >= 1 && n <= len(printer.choices) {
			resp = controller.OnChoice(ctx, userID, printer.choices[n-1].ID)
		} else {
			resp = controller.OnText(ctx, userID, line)
		}
		printer.print(resp)
		fmt.Print("> ")
	}

	err = scanner.Err()
	if err != nil {
		err = errors.Wrap(err, "input error")
	}
	return err
}
