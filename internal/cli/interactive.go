package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/service"
	"github.com/vaultpass/passgen-go/internal/session"
)

const interactiveHelp = `commands:
  length <n>            set the password length
  enable <class>        turn a class on (uppercase, lowercase, numbers, symbols)
  disable <class>       turn a class off
  classes <a,b,...>     replace the enabled classes
  regenerate | r        draw a new password with the same settings
  show                  print the current settings
  help                  print this message
  quit | exit           leave`

func newInteractiveCommand(gen *crypto.Generator) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Adjust settings live; the password is regenerated after every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), gen)
		},
	}
}

func runInteractive(in io.Reader, out io.Writer, gen *crypto.Generator) error {
	sess, err := session.New(gen, crypto.DefaultConfig(), session.WithValidator(service.ValidateConfig))
	if err != nil {
		return err
	}
	sess.Subscribe(func(snap session.Snapshot) {
		fmt.Fprintln(out, snap.Password)
	})

	fmt.Fprintln(out, "=== passgen (interactive) === type 'help' for commands")
	printSettings(out, sess.Snapshot())
	fmt.Fprintln(out, sess.Snapshot().Password)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, arg := strings.ToLower(fields[0]), strings.Join(fields[1:], " ")
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := dispatch(sess, out, cmd, arg); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func dispatch(sess *session.Session, out io.Writer, cmd, arg string) error {
	switch cmd {
	case "length":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("length must be a number, got %q", arg)
		}
		_, err = sess.SetLength(n)
		return err

	case "enable", "disable":
		class, err := crypto.ParseCharacterClass(arg)
		if err != nil {
			return err
		}
		if cmd == "enable" {
			_, err = sess.Enable(class)
		} else {
			_, err = sess.Disable(class)
		}
		return err

	case "classes":
		classes, err := crypto.ParseClassSet(strings.Split(arg, ","))
		if err != nil {
			return err
		}
		_, err = sess.SetClasses(classes)
		return err

	case "regenerate", "r":
		sess.Regenerate()
		return nil

	case "show":
		printSettings(out, sess.Snapshot())
		return nil

	case "help":
		fmt.Fprintln(out, interactiveHelp)
		return nil

	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

func printSettings(out io.Writer, snap session.Snapshot) {
	fmt.Fprintf(out, "length=%d classes=%s\n", snap.Config.Length, strings.Join(snap.Config.Classes.Names(), ","))
}
