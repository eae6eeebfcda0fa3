package macro

import "strings"

const (
	scriptOpen  = "<js>"
	scriptClose = "</js>"
)

// statement is one logical line of a macro, or one script block.
type statement struct {
	line   int // 1-based line the statement starts on
	text   string
	script bool
}

// splitStatements strips // and /* */ comments and cuts the macro into
// lines. Script blocks are kept verbatim, comments included, and become one
// statement each. Quoted strings are left alone.
func splitStatements(src string) []statement {
	var (
		stmts   []statement
		cur     strings.Builder
		block   strings.Builder
		line    = 1
		start   = 1
		inBlock bool
		inJS    bool
		quote   byte
	)

	flush := func() {
		if text := strings.TrimSpace(cur.String()); text != "" {
			stmts = append(stmts, statement{line: line, text: text})
		}
		cur.Reset()
	}

	for i := 0; i < len(src); {
		c := src[i]
		rest := src[i:]

		switch {
		case inJS:
			if strings.HasPrefix(rest, scriptClose) {
				stmts = append(stmts, statement{line: start, text: block.String(), script: true})
				inJS = false
				i += len(scriptClose)
				continue
			}
			if c == '\n' {
				line++
			}
			block.WriteByte(c)

		case inBlock:
			if strings.HasPrefix(rest, "*/") {
				inBlock = false
				i += 2
				continue
			}
			if c == '\n' {
				flush()
				line++
			}

		case quote != 0:
			if c == '\n' {
				quote = 0
				flush()
				line++
				break
			}
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)

		case strings.HasPrefix(rest, scriptOpen):
			flush()
			inJS = true
			start = line
			block.Reset()
			i += len(scriptOpen)
			continue

		case strings.HasPrefix(rest, "//"):
			if j := strings.IndexByte(rest, '\n'); j >= 0 {
				i += j
			} else {
				i = len(src)
			}
			continue

		case strings.HasPrefix(rest, "/*"):
			inBlock = true
			i += 2
			continue

		case c == '\n':
			flush()
			line++

		default:
			if c == '"' || c == '\'' {
				quote = c
			}
			cur.WriteByte(c)
		}
		i++
	}

	if inJS {
		// Unterminated block: run what there is.
		stmts = append(stmts, statement{line: start, text: block.String(), script: true})
	}
	flush()
	return stmts
}
