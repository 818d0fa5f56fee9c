package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

type subjectRow struct {
	models.Subject
	Eligible bool
	Missing  []string
}

var stateColors = map[models.AcademicState]color.Attribute{
	models.StatePromoted:            color.FgGreen,
	models.StateApproved:            color.FgGreen,
	models.StateRegular:             color.FgCyan,
	models.StateInProgress:          color.FgBlue,
	models.StateMissingPrerequisite: color.FgYellow,
	models.StateWithdrawn:           color.FgRed,
}

func stateLabel(state models.AcademicState) string {
	attr, ok := stateColors[state]
	if !ok {
		return state.Label()
	}
	return color.New(attr).Sprint(state.Label())
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func renderSubjects(out io.Writer, subjects []models.Subject, year int) {
	color.New(color.FgYellow).Fprintln(out, "Subjects")
	table := newTable(out, "ID", "Code", "Name", "Year", "State", "Can retake", "Missing")
	for _, row := range subjectRows(subjects, year) {
		eligible := color.New(color.FgGreen).Sprint("yes")
		if !row.Eligible {
			eligible = color.New(color.FgRed).Sprint("no")
		}
		table.Append([]string{
			row.ID,
			row.Code,
			row.Name,
			strconv.Itoa(row.Year),
			stateLabel(row.State),
			eligible,
			strings.Join(row.Missing, ", "),
		})
	}
	table.Render()
}

func renderBoards(out io.Writer, boards []models.AvailableBoard) {
	color.New(color.FgYellow).Fprintln(out, "Exam boards")
	table := newTable(out, "Subject", "State", "Board ID", "Board", "Date", "")
	for _, group := range boards {
		marker := ""
		if group.Blocked() {
			marker = color.New(color.FgRed).Sprint("blocked")
		}
		for _, board := range group.Boards {
			table.Append([]string{
				fmt.Sprintf("%s (%s)", group.SubjectName, group.SubjectID),
				stateLabel(group.State),
				board.ID,
				board.Name,
				board.Date,
				marker,
			})
		}
	}
	table.Render()
}

func renderEnrollments(out io.Writer, enrollments []models.ExamEnrollment) {
	color.New(color.FgYellow).Fprintln(out, "Exam enrollments")
	table := newTable(out, "Subject ID", "Subject", "Board ID", "Board", "Date", "State")
	for _, e := range enrollments {
		table.Append([]string{e.SubjectID, e.SubjectName, e.BoardID, e.BoardName, e.Date, stateLabel(e.State)})
	}
	table.Render()
}

func renderNotifications(out io.Writer, items []models.Notification) {
	color.New(color.FgYellow).Fprintln(out, "Notifications")
	table := newTable(out, "ID", "Date", "Type", "Title", "Message", "")
	for _, n := range items {
		marker := ""
		if !n.Read {
			marker = color.New(color.FgCyan).Sprint("new")
		}
		table.Append([]string{
			n.ID,
			n.CreatedAt.Format("2006-01-02 15:04"),
			string(n.Type),
			n.Title,
			n.Message,
			marker,
		})
	}
	table.Render()
}

// terminalNotifier prints workflow results in color.
type terminalNotifier struct {
	out io.Writer
}

func (n terminalNotifier) Success(message string) {
	color.New(color.FgGreen).Fprintln(n.out, message)
}

func (n terminalNotifier) Error(message string) {
	color.New(color.FgRed).Fprintln(n.out, message)
}
