package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lazypower/heartbeat/internal/config"
	"github.com/lazypower/heartbeat/internal/interval"
	"github.com/lazypower/heartbeat/internal/status"
	"github.com/lazypower/heartbeat/internal/store"
	"github.com/spf13/cobra"
)

// runMotd prints the staleness report. Nothing stale means no output,
// which keeps login scripts quiet.
func runMotd(cmd *cobra.Command, cfg config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	lines := status.Evaluate(st.All(), time.Now())
	status.Render(cmd.OutOrStdout(), lines, cfg.Output.Color)
	return nil
}

// runAdd prompts for the fields of a new tracked action and stores it.
// The prompts happen before the store is opened so an abandoned prompt
// leaves no open handle behind.
func runAdd(cmd *cobra.Command, cfg config.Config) (err error) {
	a, err := promptAction(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	st.Add(a)
	return nil
}

// promptAction reads the fields for a new tracked action, one per line.
// A blank or non-numeric leniency means the action never goes stale.
func promptAction(in io.Reader, out io.Writer) (store.Action, error) {
	sc := bufio.NewScanner(in)
	prompt := func(label string) (string, error) {
		fmt.Fprintf(out, "%s: ", label)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("read input: %w", err)
			}
			return "", errors.New("unexpected end of input")
		}
		return strings.TrimSpace(sc.Text()), nil
	}

	var a store.Action
	var err error
	if a.Name, err = prompt("Name"); err != nil {
		return store.Action{}, err
	}
	if a.Name == "" {
		return store.Action{}, errors.New("name must not be empty")
	}
	if a.LastLine, err = prompt("Stale line (%s becomes the elapsed time)"); err != nil {
		return store.Action{}, err
	}
	if a.NeverLine, err = prompt("Never line"); err != nil {
		return store.Action{}, err
	}
	raw, err := prompt("Leniency (seconds)")
	if err != nil {
		return store.Action{}, err
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		a.Leniency = time.Duration(secs) * time.Second
	}
	return a, nil
}

func runRemove(cmd *cobra.Command, cfg config.Config, name string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Remove persists synchronously, so a failed save surfaces here
	// rather than at close.
	if err := st.Remove(name); err != nil {
		if errors.Is(err, store.ErrUnknownAction) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			return nil
		}
		return err
	}
	return nil
}

func runPing(cmd *cobra.Command, cfg config.Config, name string) (err error) {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if lerr := st.Log(name, time.Now()); lerr != nil {
		if errors.Is(lerr, store.ErrUnknownAction) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", lerr)
			return nil
		}
		return lerr
	}
	return nil
}

func runList(cmd *cobra.Command, cfg config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, name := range st.Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

// runStatus prints when one action was last performed, regardless of
// whether it is stale.
func runStatus(cmd *cobra.Command, cfg config.Config, name string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	a, ok := st.Get(name)
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v: %s\n", store.ErrUnknownAction, name)
		return nil
	}
	if a.LastBeat == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has never been done\n", name)
		return nil
	}
	elapsed := time.Since(*a.LastBeat)
	fmt.Fprintf(cmd.OutOrStdout(), "%s was last done %s ago\n", name, interval.FromDuration(elapsed))
	return nil
}
