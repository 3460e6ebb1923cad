// Package credentials resolves the Spotify app credentials used for the
// client-credentials grant, persisting them in the system keyring.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	service    = "podcast-runtime"
	userID     = "spotify-client-id"
	userSecret = "spotify-client-secret"
)

// Credentials identify a registered Spotify app
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Complete reports whether both halves are present
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// merge fills empty fields of c from other
func (c Credentials) merge(other Credentials) Credentials {
	if c.ClientID == "" {
		c.ClientID = other.ClientID
	}
	if c.ClientSecret == "" {
		c.ClientSecret = other.ClientSecret
	}
	return c
}

// PromptFunc asks the user for whichever fields of have are empty
type PromptFunc func(have Credentials) (Credentials, error)

// Load reads stored credentials. Missing entries come back empty.
func Load() (Credentials, error) {
	id, err := get(userID)
	if err != nil {
		return Credentials{}, err
	}
	secret, err := get(userSecret)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{ClientID: id, ClientSecret: secret}, nil
}

// Save persists credentials in the system keyring
func Save(c Credentials) error {
	if !c.Complete() {
		return errors.New("client id and secret are both required")
	}
	if err := keyring.Set(service, userID, c.ClientID); err != nil {
		return fmt.Errorf("storing client id: %w", err)
	}
	if err := keyring.Set(service, userSecret, c.ClientSecret); err != nil {
		return fmt.Errorf("storing client secret: %w", err)
	}
	return nil
}

// Delete removes stored credentials; absent entries are not an error
func Delete() error {
	for _, user := range []string{userID, userSecret} {
		if err := keyring.Delete(service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("deleting %s: %w", user, err)
		}
	}
	return nil
}

func get(user string) (string, error) {
	v, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Resolve completes configured credentials from the keyring, then from
// prompt when one is given. It fails with an unauthorized error when the
// pair is still incomplete.
func Resolve(configured Credentials, prompt PromptFunc) (Credentials, error) {
	creds := configured
	if creds.Complete() {
		return creds, nil
	}

	stored, err := Load()
	if err != nil {
		// headless systems often have no keyring service at all
		logrus.WithError(err).Debug("keyring unavailable")
	} else {
		creds = creds.merge(stored)
	}
	if creds.Complete() {
		return creds, nil
	}

	if prompt != nil {
		entered, err := prompt(creds)
		if err != nil {
			return Credentials{}, apperrors.Unauthorized("reading credentials", err)
		}
		creds = creds.merge(entered)
	}

	if !creds.Complete() {
		return Credentials{}, apperrors.Unauthorized(
			"spotify client credentials not found; set PODRUNTIME_SPOTIFY_CLIENT_ID and PODRUNTIME_SPOTIFY_CLIENT_SECRET or run 'auth login'", nil)
	}
	return creds, nil
}

// TerminalPrompt reads missing fields from in without echo. It returns nil
// when in is not a terminal, so callers never block on a pipe.
func TerminalPrompt(in *os.File, out io.Writer) PromptFunc {
	if in == nil || !term.IsTerminal(int(in.Fd())) {
		return nil
	}
	return func(have Credentials) (Credentials, error) {
		read := func(label string) (string, error) {
			fmt.Fprintf(out, "%s: ", label)
			b, err := term.ReadPassword(int(in.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(b)), nil
		}
		return fill(have, read)
	}
}

// LinePrompt reads missing fields line by line from r, for piped input
func LinePrompt(r io.Reader, out io.Writer) PromptFunc {
	scanner := bufio.NewScanner(r)
	return func(have Credentials) (Credentials, error) {
		read := func(label string) (string, error) {
			fmt.Fprintf(out, "%s: ", label)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", err
				}
				return "", io.ErrUnexpectedEOF
			}
			return strings.TrimSpace(scanner.Text()), nil
		}
		return fill(have, read)
	}
}

func fill(have Credentials, read func(label string) (string, error)) (Credentials, error) {
	var err error
	if have.ClientID == "" {
		if have.ClientID, err = read("Spotify client ID"); err != nil {
			return Credentials{}, err
		}
	}
	if have.ClientSecret == "" {
		if have.ClientSecret, err = read("Spotify client secret"); err != nil {
			return Credentials{}, err
		}
	}
	return have, nil
}
