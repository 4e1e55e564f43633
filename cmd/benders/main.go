/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command benders solves a mixed-integer program by Benders decomposition and
// prints the cuts it generated on the way.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/costela/benders"
	"github.com/costela/benders/config"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(8)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FD787"))
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func main() {
	configPath := flag.String("config", "", "path to a YAML problem file (defaults to the built-in example)")
	verify := flag.Bool("verify", false, "solve the extensive form and check every cut at its optimum")
	quiet := flag.Bool("quiet", false, "do not print the per-iteration trace")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			die("load config: %v", err)
		}
	}

	inst, err := cfg.Instance()
	if err != nil {
		die("instance: %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		die("options: %v", err)
	}
	if !*quiet {
		opts = append(opts, benders.WithLogger(log.New(os.Stderr, "", 0)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	solver, err := benders.NewSolver(inst, opts...)
	if err != nil {
		die("%v", err)
	}
	res, err := solver.SolveWithContext(ctx)
	if res == nil {
		die("solve: %v", err)
	}
	fmt.Println(report(res))
	if err != nil {
		die("solve: %v", err)
	}

	if *verify {
		if err := check(ctx, inst, res); err != nil {
			fmt.Println(badStyle.Render("verification failed"))
			die("%v", err)
		}
		fmt.Println(okStyle.Render("all cuts hold at the extensive-form optimum"))
	}

	if res.Status != benders.StatusOptimal {
		os.Exit(1)
	}
}

func report(res *benders.Result) string {
	status := okStyle.Render(res.Status.String())
	if res.Status != benders.StatusOptimal {
		status = badStyle.Render(res.Status.String())
	}

	lines := []string{
		titleStyle.Render("Benders decomposition"),
		labelStyle.Render("status") + status,
	}
	if res.X != nil {
		lines = append(lines,
			labelStyle.Render("t")+fmt.Sprintf("%g", res.T),
			labelStyle.Render("x")+fmt.Sprintf("%v", res.X),
		)
	}
	lines = append(lines, labelStyle.Render("calls")+fmt.Sprintf("%d (%d cuts, %d re-imposed)", res.Calls, len(res.Cuts), res.Reimposed))

	if len(res.Cuts) > 0 {
		lines = append(lines, "", titleStyle.Render("Cuts"))
		for i, cut := range res.Cuts {
			lines = append(lines, fmt.Sprintf("%3d  %-11s  %s", i+1, cut.Kind, cut))
		}
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}

// check compares the decomposition against the undecomposed problem.
func check(ctx context.Context, inst *benders.Instance, res *benders.Result) error {
	ext, err := benders.SolveExtensive(ctx, inst)
	if err != nil {
		return fmt.Errorf("extensive form: %w", err)
	}
	if ext.Status != res.Status {
		return fmt.Errorf("extensive form is %s, decomposition is %s", ext.Status, res.Status)
	}
	if ext.Status != benders.StatusOptimal {
		return nil
	}

	var checkErr *benders.CheckError
	if err := benders.CheckCuts(res.Cuts, ext.X, ext.Objective, 1e-6); errors.As(err, &checkErr) {
		for _, v := range checkErr.Violations {
			fmt.Println(badStyle.Render(fmt.Sprintf("cut %d violated by %g: %s", v.Index+1, -v.Slack, v.Cut)))
		}
		return err
	} else if err != nil {
		return err
	}

	if math.Abs(ext.Objective-res.T) > 1e-6 {
		return fmt.Errorf("objective %g differs from extensive form %g", res.T, ext.Objective)
	}
	return nil
}

func die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
