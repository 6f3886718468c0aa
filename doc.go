/*
Package logpick extracts named fields from lines of semi-structured text, e.g.
log files. What to extract is described by a template that alternates literal
separators and named captures in curly braces:

	[{ts}] level={level} msg={msg}

Applied to the line

	[2023-06-27 21:58:11] level=INFO msg=clearing maps

the template yields the record

	{"ts":"2023-06-27 21:58:11","level":"INFO","msg":"clearing maps"}

There are no wildcards and no regular expressions. A capture is simply
everything between the end of the previous literal and the next occurrence of
its own literal. Scanning never goes back: once a literal is found, the search
for the next literal starts right after it.

# Templates

A template is compiled once with Compile and can then be shared by any number
of goroutines. Internally the template is split into segments. Each segment is
a capture name followed by the literal that terminates the capture. The first
segment holds the literal in front of the first capture, which may be empty:

	{head} end     segments: "" | head " end"
	start {tail}   segments: "start " | tail ""

A capture at the end of the template, i.e. one with an empty terminating
literal, takes the rest of the line. Captures with an empty name, written as
{}, are matched but dropped from the result.

Two captures must always be separated by a literal, otherwise there would be
no way to know where the first capture ends. Compile rejects such templates
with ErrConsecutiveCaptures. A template that ends inside a capture name is
rejected with ErrUnterminatedName. There is no way to escape '{' in literals.
A '}' outside of a capture name is an ordinary literal character.

# Matching Lines

Each literal is compiled into a small automaton with the prefix function of the
Knuth-Morris-Pratt algorithm, so finding a literal takes time linear in the
length of the scanned text. Lines are compared rune by rune. There is no
normalization.

If a literal cannot be found in the rest of a line, matching stops. The
captures found so far are kept, the following captures are not reported. Empty
captures are never reported. A line that yields no capture at all has an empty
Record and is skipped when scanning a whole text with Scan.

# Output

Records are written with Writer, either one JSON object per line
(FormatLines) or as a JSON list (FormatList). By default names and values are
escaped as JSON strings. Writer.Raw selects the legacy format that writes them
verbatim, which is not valid JSON if a value contains quotes or backslashes.
*/
package logpick
