package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // enum values
	FileGlob string   // comma-separated globs
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments; empty = no files
}

// completionMeta holds completion hints that the FlagSet cannot express.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
// Flag names, types, and descriptions come from the FlagSet.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		"engine": {Values: []string{"line", "goldmark"}},
		"style":  {Values: assets.ListStyles()},

		"config": {FileGlob: "*.yaml,*.yml"},
		"css":    {FileGlob: "*.css"},

		"output":     {IsDir: true},
		"asset-path": {IsDir: true},
	}
}

// extractFlagsFromFlagSet converts pflag definitions into flagDefs.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	meta := flagCompletionMeta()
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type = flagEnum
				fd.Values = m.Values
			case m.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = m.FileGlob
			case m.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	lineFS := flag.NewFlagSet("line", flag.ContinueOnError)
	lineFS.BoolP("verbose", "v", false, "print the line after each stage")

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert markdown files to HTML",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})),
			FilePattern: "*.md,*.markdown",
		},
		{Name: "line", Desc: "Compile a single line of markdown", Flags: extractFlagsFromFlagSet(lineFS)},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:       eval \"$(md2html completion bash)\"")
	fmt.Fprintln(w, "  Zsh:        eval \"$(md2html completion zsh)\"")
	fmt.Fprintln(w, "  Fish:       md2html completion fish > ~/.config/fish/completions/md2html.fish")
	fmt.Fprintln(w, "  PowerShell: md2html completion powershell | Out-String | Invoke-Expression")
}

// commandNames returns the registered command names, space-separated.
func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// flagWords returns every --long and -short spelling of a command's flags.
func flagWords(flags []flagDef) string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

// globExtensions turns "*.yaml,*.yml" into "yaml|yml".
func globExtensions(globs string) string {
	parts := strings.Split(globs, ",")
	for i, p := range parts {
		parts[i] = strings.TrimPrefix(strings.TrimSpace(p), "*.")
	}
	return strings.Join(parts, "|")
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for md2html\n")
	b.WriteString("_md2html_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${prev}\" in\n")
	for _, f := range cmds[0].Flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n            return ;;\n",
				pattern, strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\"))\n            return ;;\n",
				pattern, globExtensions(f.FileGlob))
		case flagDir:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -d -- \"${cur}\"))\n            return ;;\n", pattern)
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"${cmd}\" in\n")
	for _, c := range cmds {
		switch {
		case c.Name == "help":
			fmt.Fprintf(&b, "        help)\n            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\")) ;;\n", commandNames(cmds))
		case c.Name == "completion":
			b.WriteString("        completion)\n            COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"${cur}\")) ;;\n")
		case len(c.Flags) > 0:
			fmt.Fprintf(&b, "        %s)\n            if [[ \"${cur}\" == -* ]]; then\n", c.Name)
			fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", flagWords(c.Flags))
			if c.FilePattern != "" {
				fmt.Fprintf(&b, "            else\n                COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n",
					globExtensions(c.FilePattern))
			}
			b.WriteString("            fi ;;\n")
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _md2html_completions md2html\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef md2html\n\n")
	b.WriteString("_md2html() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		switch {
		case c.Name == "help":
			b.WriteString("        help)\n            _describe 'command' commands ;;\n")
		case c.Name == "completion":
			b.WriteString("        completion)\n            _values 'shell' bash zsh fish powershell ;;\n")
		case len(c.Flags) > 0:
			fmt.Fprintf(&b, "        %s)\n            _arguments \\\n", c.Name)
			for _, f := range c.Flags {
				fmt.Fprintf(&b, "                %s \\\n", zshFlagSpec(f))
			}
			if c.FilePattern != "" {
				fmt.Fprintf(&b, "                '*:file:_files -g \"*.(%s)\"'\n", globExtensions(c.FilePattern))
			} else {
				b.WriteString("                '*:text:'\n")
			}
			b.WriteString("            ;;\n")
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _md2html md2html\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec renders one _arguments spec for f.
func zshFlagSpec(f flagDef) string {
	names := "--" + f.Long
	if f.Short != "" {
		names = fmt.Sprintf("{-%s,--%s}", f.Short, f.Long)
	}
	desc := "[" + zshEscape(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"*.(" + globExtensions(f.FileGlob) + ")\""
	case flagDir:
		action = ":directory:_directories"
	default:
		action = ":value:"
	}

	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'%s'%s%s'", f.Short, f.Long, names, desc, action)
	}
	return fmt.Sprintf("'%s%s%s'", names, desc, action)
}

// zshEscape escapes characters with meaning inside zsh completion specs.
func zshEscape(s string) string {
	return strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:").Replace(s)
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for md2html\n\n")
	b.WriteString("function __fish_md2html_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_md2html_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c md2html -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2html -n '__fish_md2html_needs_command' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_md2html_using_command %s'", c.Name)
		switch {
		case c.Name == "help":
			fmt.Fprintf(&b, "complete -c md2html -n %s -a '%s'\n", cond, commandNames(cmds))
		case c.Name == "completion":
			fmt.Fprintf(&b, "complete -c md2html -n %s -a 'bash zsh fish powershell'\n", cond)
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c md2html -n %s -F\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c md2html -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile, flagDir:
				line += " -r -F"
			default:
				line += " -x"
			}
			line += " -d '" + fishEscape(f.Desc) + "'"
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// fishEscape escapes single quotes for fish strings.
func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for md2html\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName md2html -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = @{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		quoted := make([]string, 0, len(c.Flags))
		for _, f := range c.Flags {
			quoted = append(quoted, "'--"+f.Long+"'")
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $elements = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $cmd = $elements[1]\n")
	b.WriteString("    if ($flags.ContainsKey($cmd) -and $wordToComplete -like '-*') {\n")
	b.WriteString("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// psEscape doubles single quotes for PowerShell strings.
func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
