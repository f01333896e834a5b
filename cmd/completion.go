package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/matias9477/btc-investment-tracker/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the commander's commands and flags for shell completion.
//
// The main package calls Complete on it before parsing the command line: it
// does nothing unless the shell asks for completions.
func Completion(cdr *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: make(map[string]complete.Predictor),
	}
	cdr.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predictFlag(f)
	})
	cdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predictFlag(f)
		})
		switch c.Name() {
		case "topic":
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(topics)
			}
		case "import":
			sub.Args = predict.Files("*.jsonl")
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

// boolFlag is implemented by the flag package's bool values.
type boolFlag interface {
	IsBoolFlag() bool
}

func predictFlag(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(boolFlag); ok && b.IsBoolFlag() {
		return nil
	}
	switch f.Name {
	case "ledger-file", "o":
		return predict.Files("*.jsonl")
	case "interest":
		return predict.Set{"on", "off"}
	case "d", "on":
		return predict.Nothing
	}
	return predict.Something
}
