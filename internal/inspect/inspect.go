// SPDX-License-Identifier: MPL-2.0

package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"shzip-cli/internal/archive"
	"shzip-cli/internal/codec"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// KindDirectory is a directory created with mkdir -p.
	KindDirectory Kind = "dir"
	// KindFile is a regular file, including empty ones.
	KindFile Kind = "file"
	// KindSymlink is a symbolic link created with ln -sf.
	KindSymlink Kind = "symlink"
)

// ErrNotArchive is the sentinel wrapped by FormatError.
var ErrNotArchive = errors.New("not an shzip archive")

type (
	// Kind classifies a listed entry.
	Kind string

	// Entry is one filesystem object the archive creates.
	Entry struct {
		Kind Kind
		// Path is relative to the extraction root; "" is the root itself.
		Path string
		// Target is the link target of a symlink.
		Target string
		// Size is the number of payload bytes embedded in the script, after
		// encoding. Zero for empty files.
		Size int64
		// Base64 reports that the payload is base64-wrapped.
		Base64 bool
		// Compression is the codec the payload is decoded with.
		Compression codec.Algorithm
	}

	// Listing describes an archive without running it.
	Listing struct {
		Name string
		// Shell is the interpreter named on the first line.
		Shell string
		// DefaultTarget is the extraction root used when TARGET is unset.
		DefaultTarget string
		// Decoders are the programs the prerequisite guard probes for.
		Decoders []string
		Entries  []Entry
	}

	// FormatError reports a script that does not have the shape shzip emits.
	FormatError struct {
		Name   string
		Line   uint
		Reason string
		Err    error
	}
)

// Error implements the error interface.
func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", e.Name, msg)
}

// Unwrap exposes ErrNotArchive and the parse failure, if any.
func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotArchive}
	}
	return []error{ErrNotArchive, e.Err}
}

// Count returns how many entries of kind the listing holds.
func (l *Listing) Count(kind Kind) int {
	n := 0
	for _, e := range l.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// PayloadSize sums the embedded payload bytes of all files.
func (l *Listing) PayloadSize() int64 {
	var total int64
	for _, e := range l.Entries {
		total += e.Size
	}
	return total
}

// List parses an archive read from r and reports what it would create.
// Nothing in the script is executed.
func List(r io.Reader, name string) (*Listing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	listing := &Listing{Name: name}
	first, _, _ := bytes.Cut(data, []byte("\n"))
	shell, ok := bytes.CutPrefix(first, []byte("#!"))
	if !ok {
		return nil, &FormatError{Name: name, Line: 1, Reason: "missing interpreter line"}
	}
	listing.Shell = string(shell)

	file, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, &FormatError{Name: name, Reason: "invalid shell syntax", Err: err}
	}

	l := &lister{listing: listing}
	for _, stmt := range file.Stmts {
		if err := l.statement(stmt); err != nil {
			return nil, err
		}
	}
	if !l.rootSeen {
		return nil, &FormatError{Name: name, Reason: "extraction root is never resolved"}
	}
	return listing, nil
}

type lister struct {
	listing  *Listing
	rootSeen bool
}

func (l *lister) fail(stmt *syntax.Stmt, reason string) error {
	return &FormatError{Name: l.listing.Name, Line: stmt.Pos().Line(), Reason: reason}
}

func (l *lister) statement(stmt *syntax.Stmt) error {
	switch cmd := stmt.Cmd.(type) {
	case *syntax.IfClause:
		return l.root(stmt, cmd)
	case *syntax.BinaryCmd:
		switch cmd.Op {
		case syntax.OrStmt:
			l.listing.Decoders = append(l.listing.Decoders, probedNames(stmt)...)
			return nil
		case syntax.Pipe:
			return l.file(stmt)
		}
	case *syntax.CallExpr:
		if !l.rootSeen {
			return l.fail(stmt, "entry precedes extraction root")
		}
		switch args := literals(cmd.Args); {
		case len(args) == 3 && args[0] == "mkdir" && args[1] == "-p":
			return l.directory(stmt, cmd.Args[2])
		case len(args) == 1 && args[0] == ":":
			return l.emptyFile(stmt)
		case len(args) == 5 && args[0] == "ln" && args[1] == "-sf" && args[2] == "--":
			return l.symlink(stmt, cmd.Args[3], cmd.Args[4])
		}
	}
	return l.fail(stmt, "unrecognized statement")
}

// root reads the default extraction root from the else branch of
// "if [ -n "${TARGET}" ]; then _TARGET=$TARGET; else _TARGET=...; fi".
func (l *lister) root(stmt *syntax.Stmt, clause *syntax.IfClause) error {
	if clause.Else == nil || len(clause.Else.Then) != 1 {
		return l.fail(stmt, "unexpected if statement")
	}
	call, ok := clause.Else.Then[0].Cmd.(*syntax.CallExpr)
	if !ok || len(call.Assigns) != 1 || call.Assigns[0].Name.Value != archive.TargetVar {
		return l.fail(stmt, "unexpected if statement")
	}
	target, err := expand.Literal(nil, call.Assigns[0].Value)
	if err != nil {
		return &FormatError{Name: l.listing.Name, Line: stmt.Pos().Line(), Reason: "invalid default target", Err: err}
	}
	l.listing.DefaultTarget = target
	l.rootSeen = true
	return nil
}

func (l *lister) directory(stmt *syntax.Stmt, word *syntax.Word) error {
	rel, err := l.destination(stmt, word)
	if err != nil {
		return err
	}
	if rel == "" {
		return nil
	}
	l.listing.Entries = append(l.listing.Entries, Entry{Kind: KindDirectory, Path: rel})
	return nil
}

func (l *lister) emptyFile(stmt *syntax.Stmt) error {
	out := outputRedirect(stmt)
	if out == nil {
		return l.fail(stmt, "empty file without destination")
	}
	rel, err := l.destination(stmt, out.Word)
	if err != nil {
		return err
	}
	l.listing.Entries = append(l.listing.Entries, Entry{Kind: KindFile, Path: rel, Compression: codec.None})
	return nil
}

func (l *lister) symlink(stmt *syntax.Stmt, target, dest *syntax.Word) error {
	rel, err := l.destination(stmt, dest)
	if err != nil {
		return err
	}
	linkTarget, err := expand.Literal(nil, target)
	if err != nil {
		return &FormatError{Name: l.listing.Name, Line: stmt.Pos().Line(), Reason: "invalid link target", Err: err}
	}
	l.listing.Entries = append(l.listing.Entries, Entry{Kind: KindSymlink, Path: rel, Target: linkTarget})
	return nil
}

// file handles "head -c -1 <<TOKEN | stage... > dest".
func (l *lister) file(stmt *syntax.Stmt) error {
	if !l.rootSeen {
		return l.fail(stmt, "entry precedes extraction root")
	}
	stages := flattenPipe(stmt)
	head := stages[0]

	call, ok := head.Cmd.(*syntax.CallExpr)
	if !ok || strings.Join(literals(call.Args), " ") != "head -c -1" {
		return l.fail(stmt, "file payload is not read with head -c -1")
	}
	var body *syntax.Word
	for _, r := range head.Redirs {
		if r.Op == syntax.Hdoc {
			body = r.Hdoc
		}
	}
	if body == nil {
		return l.fail(stmt, "file payload has no here-document")
	}

	out := outputRedirect(stages[len(stages)-1])
	if out == nil {
		return l.fail(stmt, "file payload without destination")
	}
	rel, err := l.destination(stmt, out.Word)
	if err != nil {
		return err
	}

	payload, err := expand.Document(nil, body)
	if err != nil {
		return &FormatError{Name: l.listing.Name, Line: stmt.Pos().Line(), Reason: "invalid here-document", Err: err}
	}

	entry := Entry{
		Kind:        KindFile,
		Path:        rel,
		Size:        int64(max(len(payload)-1, 0)),
		Compression: codec.None,
	}
	for _, stage := range stages[1:] {
		switch cmd := stage.Cmd.(type) {
		case *syntax.CallExpr:
			if len(cmd.Args) > 0 && cmd.Args[0].Lit() == "base64" {
				entry.Base64 = true
			}
		case *syntax.Block:
			names := probedNames(stage)
			if len(names) == 0 {
				return l.fail(stmt, "decoder stage does not probe a program")
			}
			alg, ok := codec.AlgorithmForDecoder(names[0])
			if !ok {
				return l.fail(stmt, fmt.Sprintf("unknown decoder %q", names[0]))
			}
			entry.Compression = alg
		}
	}
	l.listing.Entries = append(l.listing.Entries, entry)
	return nil
}

// destination strips the "$_TARGET" prefix from a destination word and
// returns the remaining path without its leading slash.
func (l *lister) destination(stmt *syntax.Stmt, word *syntax.Word) (string, error) {
	if len(word.Parts) == 0 {
		return "", l.fail(stmt, "empty destination")
	}
	dq, ok := word.Parts[0].(*syntax.DblQuoted)
	if !ok || len(dq.Parts) != 1 {
		return "", l.fail(stmt, "destination outside the extraction root")
	}
	param, ok := dq.Parts[0].(*syntax.ParamExp)
	if !ok || param.Param.Value != archive.TargetVar {
		return "", l.fail(stmt, "destination outside the extraction root")
	}

	rest, err := expand.Literal(nil, &syntax.Word{Parts: word.Parts[1:]})
	if err != nil {
		return "", &FormatError{Name: l.listing.Name, Line: stmt.Pos().Line(), Reason: "invalid destination", Err: err}
	}
	return strings.TrimPrefix(rest, "/"), nil
}

func flattenPipe(stmt *syntax.Stmt) []*syntax.Stmt {
	if bc, ok := stmt.Cmd.(*syntax.BinaryCmd); ok && bc.Op == syntax.Pipe {
		return append(flattenPipe(bc.X), flattenPipe(bc.Y)...)
	}
	return []*syntax.Stmt{stmt}
}

func outputRedirect(stmt *syntax.Stmt) *syntax.Redirect {
	for _, r := range stmt.Redirs {
		if r.Op == syntax.RdrOut {
			return r
		}
	}
	return nil
}

// probedNames collects NAME from every "command -v NAME" under node.
func probedNames(node syntax.Node) []string {
	var names []string
	syntax.Walk(node, func(n syntax.Node) bool {
		call, ok := n.(*syntax.CallExpr)
		if !ok {
			return true
		}
		if args := literals(call.Args); len(args) == 3 && args[0] == "command" && args[1] == "-v" {
			names = append(names, args[2])
		}
		return true
	})
	return names
}

// literals returns the literal text of each word; non-literal words
// become "".
func literals(words []*syntax.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Lit()
	}
	return out
}
