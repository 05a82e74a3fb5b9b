// bridge-console drives one intake call from the terminal, one line per
// caller utterance. It runs the same dialogue manager as the server, without
// telephony or HTTP.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"bridge-voice-backend/internal/dialogue"
	"bridge-voice-backend/internal/intake"
	"bridge-voice-backend/internal/messages"
	"bridge-voice-backend/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var callID, lang string
	var verbose bool

	flagSet := pflag.NewFlagSet("bridge-console", pflag.ContinueOnError)
	flagSet.StringVar(&callID, "call-id", uuid.NewString(), "call id for the session")
	flagSet.StringVar(&lang, "lang", "en", "language of the opening greeting")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "show turn logs")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if !verbose {
		log.SetOutput(io.Discard)
	}

	text, err := messages.Embedded()
	if err != nil {
		return err
	}
	manager := dialogue.NewManager(store.NewMemoryStore(store.Options{}), text)

	fmt.Printf("[%s] %s\n", callID, manager.Greeting(intake.ParseLanguage(lang)))
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			break
		}
		res, err := manager.Turn(callID, in.Text())
		if err != nil && !errors.Is(err, dialogue.ErrEmptyUtterance) {
			return err
		}
		fmt.Println(res.Response)
		if verbose {
			fmt.Printf("(state %s)\n", res.State)
		}
	}
	if err := in.Err(); err != nil {
		return err
	}

	snap, err := manager.Snapshot(callID, false)
	if err == nil {
		fmt.Printf("\ncall ended at %s (%d turns, language %s)\n", snap.Step, snap.Turns, snap.Language)
	}
	return nil
}
