package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// Intents is the subset of the recorder the keyboard drives.
type Intents interface {
	Start()
	Stop()
	Send()
}

const ctrlC = 0x03

var errQuit = errors.New("quit")

// readKeys translates single keystrokes into recorder intents until q,
// Ctrl-C, EOF or ctx cancellation. It returns nil on a requested quit.
func readKeys(ctx context.Context, r io.Reader, intents Intents) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan byte)
	readErr := make(chan error, 1)

	go func() {
		br := bufio.NewReader(r)
		for {
			b, err := br.ReadByte()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case keys <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case b := <-keys:
			if err := dispatchKey(b, intents); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
		}
	}
}

func dispatchKey(b byte, intents Intents) error {
	switch b {
	case 'r', 'R':
		intents.Start()
	case 's', 'S':
		intents.Stop()
	case 'u', 'U', '\r', '\n':
		intents.Send()
	case 'q', 'Q', ctrlC:
		return errQuit
	}
	return nil
}
