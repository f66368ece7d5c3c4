package ux

import (
	"fmt"
	"io"
	"os"

	"github.com/KazanKK/dbss/internal/fault"
	"github.com/fatih/color"
	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
)

// UserLog routes user facing output. Narration goes to Out unless Quiet is
// set; failures go to Out in verbose mode and to Err in quiet mode.
type UserLog struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool
}

func NewUserLog(out, errOut io.Writer, quiet bool) *UserLog {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &UserLog{Out: out, Err: errOut, Quiet: quiet}
}

// Say narrates progress. Suppressed in quiet mode.
func (u *UserLog) Say(format string, args ...interface{}) {
	if u.Quiet {
		return
	}
	fmt.Fprintf(u.Out, format+"\n", args...)
}

// Print writes command output that is shown regardless of quiet mode.
func (u *UserLog) Print(format string, args ...interface{}) {
	fmt.Fprintf(u.Out, format+"\n", args...)
}

func (u *UserLog) Success(format string, args ...interface{}) {
	if u.Quiet {
		return
	}
	color.New(color.FgGreen).Fprintf(u.Out, format+"\n", args...)
}

// Fail reports err once. Database faults carry the driver diagnostic and are
// printed bare; everything else is prefixed with "Command failed".
func (u *UserLog) Fail(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	dbFault := fault.IsKind(err, fault.Database)

	if u.Quiet {
		if dbFault {
			fmt.Fprintf(u.Err, "[dbss/mssql] %s\n", msg)
		} else {
			fmt.Fprintf(u.Err, "dbss -- %s\n", msg)
		}
		return
	}
	if dbFault {
		fmt.Fprintln(u.Out, msg)
		return
	}
	color.New(color.FgRed).Fprintf(u.Out, "Command failed: %s\n", msg)
}

func (u *UserLog) Table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(u.Out)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.AppendBulk(rows)
	table.Render()
}

// CSV marshals a slice of csv-tagged structs to Out.
func (u *UserLog) CSV(records interface{}) error {
	return gocsv.Marshal(records, u.Out)
}
