// Command wikitrail follows the first body link of Wikipedia articles until
// it reaches Philosophy, finds a loop, or runs out of links.
//
// Usage:
//
//	wikitrail [--config file] [--dest title] <article words...>
//
// Multi-word titles may be given as separate arguments or joined with
// underscores. Settings come from defaults, an optional config file and
// WIKITRAIL_* environment variables, for example
// WIKITRAIL_FETCH_BASE_URL=http://localhost:8080/wiki/ or
// WIKITRAIL_LOGGING_LEVEL=debug.
//
// Exit status is 0 when the destination or a loop is reached, 1 for usage
// and configuration errors, 2 when an article could not be fetched and 3
// when an article had no link to follow.
package main

import "github.com/JakeFAU/wikitrail/cmd"

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
