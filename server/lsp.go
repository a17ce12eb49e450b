package server

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/flux/compiler"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "flux-lsp"

var log = commonlog.GetLogger("flux.lsp")

// keywordDocs backs hover on statement keywords.
var keywordDocs = map[string]string{
	"if":       "`if(cond):` runs the block when cond is non-zero",
	"while":    "`while(cond):` repeats the block while cond is non-zero",
	"for":      "`for(cond):` repeats the block while cond is non-zero",
	"else":     "`else:` starts the alternative branch of the innermost if",
	"endif":    "closes the innermost if",
	"endwhile": "closes the innermost while",
	"endfor":   "closes the innermost for",
	"end":      "ends the current function, or halts at top level",
	"print":    "`print(a, b)` writes each argument on its own line; `print(\"$x\", x)` substitutes variables",
	"error":    "`error(text)` writes text to stderr",
	"input":    "`input(var)` or `input(\"prompt\", var)` reads one line into var",
	"return":   "`return expr` stores expr in `__ret` and returns to the caller",
}

// LspServer serves editor features for Flux source documents.
type LspServer struct {
	mu       sync.Mutex
	docs     map[string]string    // URI → full document content
	analyses map[string]*Analysis // URI → last analysis of that content

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server.
func NewLSP() *LspServer {
	s := &LspServer{
		docs:     make(map[string]string),
		analyses: make(map[string]*Analysis),
		version:  "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentDefinition: s.textDocumentDefinition,
		TextDocumentReferences: s.textDocumentReferences,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	commonlog.NewInfoMessage(0, "Flux LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"(", "$"},
	}

	capabilities.HoverProvider = true
	capabilities.DefinitionProvider = true
	capabilities.ReferencesProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	a := s.update(uri, params.TextDocument.Text)
	s.publishDiagnostics(ctx, uri, a)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			a := s.update(uri, whole.Text)
			s.publishDiagnostics(ctx, uri, a)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	delete(s.analyses, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// update stores new document text and its analysis.
func (s *LspServer) update(uri protocol.DocumentUri, text string) *Analysis {
	a := Analyze(text)
	s.mu.Lock()
	s.docs[string(uri)] = text
	s.analyses[string(uri)] = a
	s.mu.Unlock()
	log.Debugf("%s: %d functions, %d problems", uri, len(a.Functions), len(a.Problems))
	return a
}

func (s *LspServer) document(uri protocol.DocumentUri) (string, *Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[string(uri)]
	return text, s.analyses[string(uri)], ok
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, a, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	prefix := extractPrefix(text, params.Position)
	if prefix == "" {
		return nil, nil
	}
	return complete(a, prefix), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, a, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}
	return hover(a, word), nil
}

func (s *LspServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := params.TextDocument.URI
	text, a, ok := s.document(uri)
	if !ok {
		return nil, nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}
	sym, ok := a.Functions[word]
	if !ok {
		sym, ok = a.Variables[word]
	}
	if !ok {
		return nil, nil
	}
	return []protocol.Location{symbolLocation(uri, sym)}, nil
}

func (s *LspServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	uri := params.TextDocument.URI
	text, _, ok := s.document(uri)
	if !ok {
		return nil, nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}
	return references(uri, text, word), nil
}

// --- Analysis-backed logic ---

func complete(a *Analysis, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	lowerPrefix := strings.ToLower(prefix)

	add := func(label, detail string, kind protocol.CompletionItemKind) {
		if !strings.HasPrefix(strings.ToLower(label), lowerPrefix) {
			return
		}
		labelCopy, detailCopy := label, detail
		items = append(items, protocol.CompletionItem{
			Label:      label,
			Kind:       &kind,
			Detail:     &detailCopy,
			InsertText: &labelCopy,
		})
	}

	for _, kw := range compiler.Keywords {
		add(kw, "keyword", protocol.CompletionItemKindKeyword)
	}
	for _, name := range a.FunctionNames() {
		add(name, a.Functions[name].Detail, protocol.CompletionItemKindFunction)
	}
	for _, name := range a.VariableNames() {
		add(name, a.Variables[name].Detail, protocol.CompletionItemKindVariable)
	}

	// Limit results
	const maxItems = 100
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	return items
}

func hover(a *Analysis, word string) *protocol.Hover {
	var value string
	if fn, ok := a.Functions[word]; ok {
		value = fmt.Sprintf("```flux\n%s\n```\n\ndeclared on line %d", fn.Detail, fn.Line+1)
	} else if doc, ok := keywordDocs[word]; ok {
		value = fmt.Sprintf("**%s**\n\n%s", word, doc)
	} else if v, ok := a.Variables[word]; ok {
		value = fmt.Sprintf("`%s %s`\n\nfirst assigned on line %d. Variables are global.", v.Detail, v.Name, v.Line+1)
	} else {
		return nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
	}
}

func symbolLocation(uri protocol.DocumentUri, sym Symbol) protocol.Location {
	start := protocol.Position{Line: protocol.UInteger(sym.Line), Character: protocol.UInteger(sym.Col)}
	end := protocol.Position{Line: start.Line, Character: start.Character + protocol.UInteger(len(sym.Name))}
	return protocol.Location{URI: uri, Range: protocol.Range{Start: start, End: end}}
}

// references finds whole-word occurrences of word outside string literals.
func references(uri protocol.DocumentUri, text, word string) []protocol.Location {
	var locations []protocol.Location
	for lineNo, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		inQuote := false
		for i := 0; i < len(line); i++ {
			switch {
			case line[i] == '\\' && inQuote:
				i++
				continue
			case line[i] == '"':
				inQuote = !inQuote
				continue
			}
			if inQuote || !strings.HasPrefix(line[i:], word) {
				continue
			}
			if i > 0 && isIdentByte(line[i-1]) {
				continue
			}
			if end := i + len(word); end < len(line) && isIdentByte(line[end]) {
				continue
			}
			locations = append(locations, symbolLocation(uri, Symbol{Name: word, Line: lineNo, Col: i}))
			i += len(word) - 1
		}
	}
	return locations
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// --- Diagnostics ---

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, a *Analysis) {
	diagnostics := diagnose(a)
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func diagnose(a *Analysis) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	source := lspName
	for _, p := range a.Problems {
		severity := protocol.DiagnosticSeverityWarning
		if p.Fatal {
			severity = protocol.DiagnosticSeverityError
		}
		line := protocol.UInteger(p.Line)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: 0},
				End:   protocol.Position{Line: line + 1, Character: 0},
			},
			Severity: &severity,
			Source:   &source,
			Message:  p.Message,
		})
	}
	if !a.HasMain() {
		severity := protocol.DiagnosticSeverityError
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Severity: &severity,
			Source:   &source,
			Message:  "no main function; the program cannot run",
		})
	}
	return diagnostics
}

// --- Text extraction helpers ---

// extractPrefix returns the word fragment before the cursor for completion.
func extractPrefix(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}

	// Walk backwards from cursor to find the start of the identifier
	start := col
	for start > 0 {
		ch := rune(line[start-1])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			start--
		} else {
			break
		}
	}

	if start == col {
		return ""
	}

	return line[start:col]
}

// extractWord returns the full identifier under the cursor.
func extractWord(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}

	// Find start
	start := col
	for start > 0 {
		ch := rune(line[start-1])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			start--
		} else {
			break
		}
	}

	// Find end
	end := col
	for end < len(line) {
		ch := rune(line[end])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			end++
		} else {
			break
		}
	}

	if start == end {
		return ""
	}

	return line[start:end]
}

func boolPtr(b bool) *bool {
	return &b
}
