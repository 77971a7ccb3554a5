// Command regrep is a thin grep-style front end over package coregex:
// read stdin or files line by line, print the lines the pattern matches,
// exit non-zero when nothing matched. It contains no engine logic of its
// own.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/coregx/coregex"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("regrep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	caseInsensitive := fs.Bool("i", false, "case-insensitive match")
	multiline := fs.Bool("m", false, "multiline: \"^\" matches at each line start")
	dotAll := fs.Bool("s", false, "dot matches line separators too")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Fprintln(stderr, "usage: regrep [-i] [-m] [-s] <pattern> [file ...]")
		return 2
	}
	pattern := rest[0]
	files := rest[1:]

	re, err := coregex.Compile(pattern, coregex.Options{
		CaseInsensitive:          *caseInsensitive,
		Multiline:                *multiline,
		DotMatchesLineSeparators: *dotAll,
	})
	if err != nil {
		fmt.Fprintf(stderr, "regrep: %v\n", err)
		return 2
	}

	found := false
	if len(files) == 0 {
		if matchReader(re, stdin, "", stdout) {
			found = true
		}
	} else {
		for _, name := range files {
			f, err := os.Open(name)
			if err != nil {
				fmt.Fprintf(stderr, "regrep: %v\n", err)
				continue
			}
			label := ""
			if len(files) > 1 {
				label = name
			}
			if matchReader(re, f, label, stdout) {
				found = true
			}
			f.Close()
		}
	}

	if !found {
		return 1
	}
	return 0
}

// matchReader prints every line of r that the pattern matches at least
// once, prefixed with label when non-empty, and reports whether any line
// matched.
func matchReader(re *coregex.Regex, r *os.File, label string, stdout *os.File) bool {
	found := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if re.MatchString(line) {
			found = true
			if label != "" {
				fmt.Fprintf(stdout, "%s:%s\n", label, line)
			} else {
				fmt.Fprintln(stdout, line)
			}
		}
	}
	return found
}
