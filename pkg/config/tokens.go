package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Sternrassler/spess/pkg/models"
)

var (
	// ErrNoTokens means the tokens file holds no token of the requested kind.
	ErrNoTokens = errors.New("no tokens available")

	// ErrTokenNotFound means no stored token matches the requested identifier.
	ErrTokenNotFound = errors.New("token not found")

	// ErrTokenExpired means an agent token belongs to another server reset.
	ErrTokenExpired = errors.New("agent token expired")
)

// Tokens are the account and agent tokens of the tokens file, newest first.
type Tokens struct {
	mu      sync.Mutex
	path    string
	write   bool
	account []*Token
	agent   []*Token
}

// ReadTokens loads the tokens file. A missing file yields no tokens.
func ReadTokens(path string, write bool) (*Tokens, error) {
	t := &Tokens{path: path, write: write}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open tokens file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for n := 1; scanner.Scan(); n++ {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		tok, err := ParseToken(line)
		if err != nil {
			return nil, fmt.Errorf("could not parse token on line %d of %s: %w", n, path, err)
		}
		t.insert(tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tokens file: %w", err)
	}

	return t, nil
}

// Path returns the tokens file location.
func (t *Tokens) Path() string {
	return t.path
}

// Account returns the account tokens, newest first.
func (t *Tokens) Account() []*Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.account)
}

// Agent returns the agent tokens, newest first.
func (t *Tokens) Agent() []*Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.agent)
}

// insert adds tok unless already present, keeping newest first.
func (t *Tokens) insert(tok *Token) {
	list := &t.agent
	if tok.Kind == KindAccount {
		list = &t.account
	}
	if slices.ContainsFunc(*list, func(o *Token) bool { return o.Raw == tok.Raw }) {
		return
	}
	*list = append(*list, tok)
	slices.SortStableFunc(*list, func(a, b *Token) int {
		return b.IssuedAt.Compare(a.IssuedAt)
	})
}

// Add records a token and saves the file when writing is enabled.
func (t *Tokens) Add(tok *Token) error {
	t.mu.Lock()
	t.insert(tok)
	t.mu.Unlock()
	return t.Save()
}

// Save rewrites the tokens file through a temporary file. It does nothing
// when writing is disabled.
func (t *Tokens) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.write {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return fmt.Errorf("create tokens dir: %w", err)
	}

	var b strings.Builder
	for _, list := range [][]*Token{t.account, t.agent} {
		for _, tok := range list {
			fmt.Fprintf(&b, "# %s\n%s\n", tok, tok.Raw)
		}
	}

	tmp := t.path + ".new"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write tokens file: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace tokens file: %w", err)
	}
	return nil
}

// resolve yields the token sel names: sel itself when it is a JWT, otherwise
// the stored tokens whose identifier matches, or all of them when sel is empty.
func resolve(tokens []*Token, sel string) ([]*Token, bool, error) {
	if IsToken(sel) {
		tok, err := ParseToken(sel)
		if err != nil {
			return nil, true, err
		}
		return []*Token{tok}, true, nil
	}
	var out []*Token
	for _, tok := range tokens {
		if sel == "" || sel == tok.Identifier {
			out = append(out, tok)
		}
	}
	return out, false, nil
}

// GetAccount returns an account token given directly or by identifier. An
// empty sel picks the newest one.
func (t *Tokens) GetAccount(sel string) (*Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	matches, _, err := resolve(t.account, sel)
	if err != nil {
		return nil, err
	}
	for _, tok := range matches {
		if tok.Kind == KindAccount {
			return tok, nil
		}
	}
	if len(t.account) > 0 || sel != "" {
		return nil, fmt.Errorf("%w: account token for %q", ErrTokenNotFound, sel)
	}
	return nil, fmt.Errorf("%w: no account tokens", ErrNoTokens)
}

// GetAgent returns the agent token for resetDate, given directly or by agent
// symbol. An empty sel picks the newest valid one.
func (t *Tokens) GetAgent(resetDate models.Date, sel string) (*Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	matches, direct, err := resolve(t.agent, sel)
	if err != nil {
		return nil, err
	}
	for _, tok := range matches {
		if tok.Kind == KindAgent && tok.ResetDate.Equal(resetDate.Time) {
			return tok, nil
		}
	}
	if direct {
		if len(matches) == 1 && matches[0].Kind == KindAgent {
			return nil, fmt.Errorf("%w: has reset %s, expected %s", ErrTokenExpired, matches[0].ResetDate, resetDate)
		}
		return nil, fmt.Errorf("%w: not an agent token", ErrInvalidToken)
	}
	if len(t.agent) > 0 || sel != "" {
		return nil, fmt.Errorf("%w: agent token for %q with reset date %s", ErrTokenNotFound, sel, resetDate)
	}
	return nil, fmt.Errorf("%w: no agent tokens", ErrNoTokens)
}
