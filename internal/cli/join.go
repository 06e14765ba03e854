package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SenQii/securejoin/internal/app"
	"github.com/SenQii/securejoin/internal/config"
	"github.com/SenQii/securejoin/internal/domain"
	"github.com/SenQii/securejoin/internal/identity"
	"github.com/SenQii/securejoin/internal/notify"
	"github.com/spf13/cobra"
)

// NewJoinCmd builds the interactive subcommand a visitor uses to pass the
// verification gate of a secured link.
func NewJoinCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "join <secure-link>",
		Short: "Verify yourself against a secured link and reveal the invite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(cmd, *configPath, args[0])
		},
	}
}

func runJoin(cmd *cobra.Command, configPath, secureLink string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	notifier := notify.Console{Out: out}
	attempts := app.NewAttemptManager(store, notifier, attemptConfig(cfg), localeOr(cfg))
	session := app.NewVerificationSession(newBackend(cfg), notifier, sessionConfig(cfg))
	flow := app.NewJoinFlow(session, attempts, identity.GetOrCreate(store))

	if err := flow.VerifyLink(cmd.Context(), secureLink); err != nil {
		return err
	}

	reader := bufio.NewScanner(cmd.InOrStdin())
	requirements := flow.Requirements()

	if requirements.NeedsQuestions() {
		if err := answerQuestions(cmd, flow, reader, out); err != nil {
			return err
		}
	}
	if flow.State() != app.StateJoined && requirements.NeedsOTP() {
		if err := passOTP(cmd, flow, reader, out); err != nil {
			return err
		}
	}

	link, err := flow.JoinLink()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, link)
	return nil
}

// answerQuestions prompts for every challenge question and resubmits until
// the answers pass or the attempt budget runs out.
func answerQuestions(cmd *cobra.Command, flow *app.JoinFlow, reader *bufio.Scanner, out io.Writer) error {
	for {
		answers := make([]string, 0, len(flow.Requirements().Questions))
		for _, question := range flow.Requirements().Questions {
			fmt.Fprintln(out, question.Question)
			for i, option := range question.Options {
				fmt.Fprintf(out, "  %d) %s\n", i+1, option.Label)
			}
			answers = append(answers, readLine(reader))
		}

		ok, err := flow.SubmitAnswers(cmd.Context(), answers)
		if ok {
			return nil
		}
		if errors.Is(err, domain.ErrBanned) {
			return err
		}
		fmt.Fprintf(out, "(%d)\n", flow.RemainingAttempts())
	}
}

// passOTP prompts for a contact, dispatches the passcode and verifies entered
// codes until one passes. An empty code requests a resend.
func passOTP(cmd *cobra.Command, flow *app.JoinFlow, reader *bufio.Scanner, out io.Writer) error {
	channel := flow.Requirements().OTPChannel
	fmt.Fprintf(out, "contact (%s): ", channel)
	contact := readLine(reader)

	if err := flow.SendOTP(cmd.Context(), contact); err != nil {
		return err
	}

	for {
		fmt.Fprint(out, "code: ")
		code := readLine(reader)
		if code == "" {
			if err := flow.SendOTP(cmd.Context(), contact); errors.Is(err, domain.ErrBanned) {
				return err
			}
			continue
		}

		ok, err := flow.VerifyOTP(cmd.Context(), code, contact)
		if ok {
			return nil
		}
		if errors.Is(err, domain.ErrBanned) {
			return err
		}
		fmt.Fprintf(out, "(%d)\n", flow.RemainingAttempts())
	}
}

func readLine(reader *bufio.Scanner) string {
	if !reader.Scan() {
		return ""
	}
	return strings.TrimSpace(reader.Text())
}
