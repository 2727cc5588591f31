// The grouptab command is the interactive front of the ledger: it
// loads the state, runs exactly one subcommand against it and saves
// the state back if anything changed.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/grouptab/grouptab/internal/cli"
	"github.com/grouptab/grouptab/internal/ledger"
	"github.com/grouptab/grouptab/internal/models"
	"github.com/grouptab/grouptab/internal/service"
)

const usage = `usage: grouptab <command> [options]

commands:
  create -a <member> [-a <member> ...] <group>   create a group
  add -g <group> <member> [<member> ...]         add members
  remove -g <group> [-f] <member> [...]          remove members (-f to force)
  split -n <label> [-g <group>] [-b]
        -f <name[:amount[%]]> [-f ...] [-t <name:amount[%]> ...] <amount>
                                                 allocate an expense
  pay -f <from> -t <to> [-g <group>] <amount>    record a direct payment
  undo [-g <group>] [index]                      undo a log entry (default: last)
  balance <group>                                plan and optionally apply a settlement
  stat [-all] [<group>]                          show member balances
  list [-all] [<group>]                          show the transaction log
  delete-group [-y] <group>                      delete a group and its history
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg := cli.Setup()
	store, err := cli.OpenStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	svc, err := service.New(ctx, store)
	if err != nil {
		slog.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}

	changed, err := run(svc, os.Args[1], os.Args[2:])
	if err != nil {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
	if changed {
		if err := svc.Save(ctx); err != nil {
			slog.Error("Failed to save ledger", "error", err)
			os.Exit(1)
		}
	}
}

// stringList collects repeatable flags like -f and -a.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// run dispatches one subcommand and reports whether it mutated the ledger.
func run(svc *service.Splitter, command string, args []string) (bool, error) {
	switch command {
	case "create":
		return runCreate(svc, args)
	case "add":
		return runAdd(svc, args)
	case "remove":
		return runRemove(svc, args)
	case "split":
		return runSplit(svc, args)
	case "pay":
		return runPay(svc, args)
	case "undo":
		return runUndo(svc, args)
	case "balance":
		return runBalance(svc, args)
	case "stat":
		return runStat(svc, args)
	case "list":
		return runList(svc, args)
	case "delete-group":
		return runDeleteGroup(svc, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return false, fmt.Errorf("unknown command %q", command)
	}
}

func runCreate(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	var members stringList
	fs.Var(&members, "a", "member to add (repeatable)")
	fs.Parse(args)
	name := fs.Arg(0)
	if name == "" {
		return false, fmt.Errorf("create needs a group name")
	}
	g, err := svc.CreateGroup(name, members)
	if err != nil {
		return false, err
	}
	fmt.Printf("Created group %s with %d members\n", g.Name, len(g.Members))
	return true, nil
}

func runAdd(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	group := fs.String("g", "", "group name")
	fs.Parse(args)
	if err := svc.AddMembers(*group, fs.Args()); err != nil {
		return false, err
	}
	return true, nil
}

func runRemove(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	group := fs.String("g", "", "group name")
	force := fs.Bool("f", false, "remove even with a nonzero balance")
	fs.Parse(args)
	if err := svc.RemoveMembers(*group, fs.Args(), *force); err != nil {
		return false, err
	}
	return true, nil
}

func runSplit(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	var from, to stringList
	fs.Var(&from, "f", "payer directive name[:amount[%]] (repeatable)")
	fs.Var(&to, "t", "receiver directive name:amount[%] (repeatable)")
	label := fs.String("n", "", "label for the expense")
	group := fs.String("g", "", "group name")
	balanceRest := fs.Bool("b", false, "receivers also share the remainder")
	fs.Parse(args)
	amount, err := parseAmountArg(fs.Arg(0))
	if err != nil {
		return false, err
	}
	change, err := svc.AllocateExpense(*group, amount, from, to, *label, *balanceRest)
	if err != nil {
		return false, err
	}
	g, err := svc.Group(*group)
	if err != nil {
		return false, err
	}
	for _, name := range g.MemberNames() {
		fmt.Printf("%s:\t%s\n", name, change[name])
	}
	return true, nil
}

func runPay(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	from := fs.String("f", "", "who pays")
	to := fs.String("t", "", "who receives")
	group := fs.String("g", "", "group name")
	fs.Parse(args)
	amount, err := parseAmountArg(fs.Arg(0))
	if err != nil {
		return false, err
	}
	if err := svc.RecordPayment(*group, amount, *from, *to); err != nil {
		return false, err
	}
	return true, nil
}

func runUndo(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("undo", flag.ExitOnError)
	group := fs.String("g", "", "group name")
	fs.Parse(args)
	index := -1
	if fs.Arg(0) != "" {
		i, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return false, fmt.Errorf("invalid log index %q", fs.Arg(0))
		}
		index = i
	}
	entry, err := svc.Undo(*group, index)
	if err != nil {
		return false, err
	}
	fmt.Printf("Undone: %s\n", entry)
	return true, nil
}

func runBalance(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	fs.Parse(args)
	group := fs.Arg(0)
	if group == "" {
		return false, fmt.Errorf("balance needs a group name")
	}
	plan, err := svc.PlanSettlement(group)
	if err != nil {
		return false, err
	}
	if len(plan) == 0 {
		fmt.Println("All balances are settled.")
		return false, nil
	}
	fmt.Println("The following transactions are recommended:")
	for _, t := range plan {
		fmt.Printf("  %s\n", t)
	}
	if !confirm("Apply them to the ledger?") {
		fmt.Println("Operation cancelled")
		return false, nil
	}
	if err := svc.ApplySettlement(group, plan); err != nil {
		return false, err
	}
	return true, nil
}

func runStat(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("stat", flag.ExitOnError)
	all := fs.Bool("all", false, "show all groups")
	fs.Parse(args)
	if *all {
		for _, g := range svc.Groups() {
			printStat(g)
		}
		return false, nil
	}
	g, err := svc.Group(fs.Arg(0))
	if err != nil {
		return false, err
	}
	printStat(g)
	return false, nil
}

func runList(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	all := fs.Bool("all", false, "show all groups")
	fs.Parse(args)
	if *all {
		for _, g := range svc.Groups() {
			printLog(g)
		}
		return false, nil
	}
	g, err := svc.Group(fs.Arg(0))
	if err != nil {
		return false, err
	}
	printLog(g)
	return false, nil
}

func runDeleteGroup(svc *service.Splitter, args []string) (bool, error) {
	fs := flag.NewFlagSet("delete-group", flag.ExitOnError)
	yes := fs.Bool("y", false, "skip confirmation")
	fs.Parse(args)
	name := fs.Arg(0)
	if name == "" {
		return false, fmt.Errorf("delete-group needs a group name")
	}
	g, err := svc.Group(name)
	if err != nil {
		return false, err
	}
	fmt.Printf("This will delete group %q forever, with no undo.\n", name)
	printStat(g)
	if !*yes && !confirm("Really delete?") {
		fmt.Println("Operation cancelled")
		return false, nil
	}
	if err := svc.DeleteGroup(name); err != nil {
		return false, err
	}
	return true, nil
}

func parseAmountArg(arg string) (models.Money, error) {
	if arg == "" {
		return 0, fmt.Errorf("missing amount argument")
	}
	return models.ParseDecimal(arg)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [yN]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(line), "y") ||
		strings.HasPrefix(strings.TrimSpace(line), "Y")
}

func printStat(g *ledger.Group) {
	fmt.Printf("Group %s:\n", g.Name)
	for _, m := range g.Members {
		fmt.Printf("  %s:\t%s\n", m.Name, m.Balance)
	}
}

func printLog(g *ledger.Group) {
	fmt.Printf("Log for group %s:\n", g.Name)
	for i, e := range g.Log {
		fmt.Printf("  %d: %s\n", i, e)
	}
}
