// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InvalidShardId Id = iota + 1
	MissingRequiredOptionId
	EnvConversionFailedId
	ConfigLoadFailedId
	EnvFileLoadFailedId
	UnsupportedSettingId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue with the named glamour style ("auto", "dark",
// "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	invalidShardIssue = &Issue{
		id: InvalidShardId,
		mdMsg: `
# Unknown option shard!

Options were looked up under a shard that was never registered for their group.
Every shard has to be declared before its flags can be read.

## Things you can try:
- Check the shard name for typos (shards are case-sensitive)
- List the flags the program declares:
~~~
$ argparseutils <command> --help
~~~`,
	}

	missingRequiredOptionIssue = &Issue{
		id: MissingRequiredOptionId,
		mdMsg: `
# A required option has no value!

Required options become optional as soon as any default is found for them.
None was found on the command line, in the environment or in the config file.

## Things you can try:
- Pass the flag on the command line
- Export the matching environment variable; list them with:
~~~
$ argparseutils <command> --environment
~~~
- Add a value under ` + "`defaults`" + ` in your config file`,
	}

	envConversionFailedIssue = &Issue{
		id: EnvConversionFailedId,
		mdMsg: `
# An environment variable holds an invalid value!

The value could not be converted to the option's type. Environment values
are never silently ignored.

## Things you can try:
- Fix or unset the variable named above
- Check your env file if one is loaded with ` + "`--env-file`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration!

The configuration file exists but could not be read or validated.

## Things you can try:
- Show where the configuration is read from:
~~~
$ argparseutils config path
~~~
- Move the broken file away and write a default one:
~~~
$ argparseutils config init
~~~`,
		extLinks: []HttpLink{"https://toml.io/en/v1.0.0", "https://cuelang.org/docs/"},
	}

	envFileLoadFailedIssue = &Issue{
		id: EnvFileLoadFailedId,
		mdMsg: `
# Failed to read the env file!

The dotenv file given with ` + "`--env-file`" + ` or ` + "`env_file`" + ` could not be parsed.

## Things you can try:
- Check that every line has the form ` + "`NAME=value`" + `
- Relative paths in the config file are resolved from the config file's directory`,
	}

	unsupportedSettingIssue = &Issue{
		id: UnsupportedSettingId,
		mdMsg: `
# Setting not supported by the backend!

The option parsed fine but the library behind it cannot apply it.

## Things you can try:
- Drop the setting named above
- Use ` + "`--environment`" + ` to check no variable is enabling it`,
	}

	issues = map[Id]*Issue{
		invalidShardIssue.Id():          invalidShardIssue,
		missingRequiredOptionIssue.Id(): missingRequiredOptionIssue,
		envConversionFailedIssue.Id():   envConversionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		envFileLoadFailedIssue.Id():     envFileLoadFailedIssue,
		unsupportedSettingIssue.Id():    unsupportedSettingIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
