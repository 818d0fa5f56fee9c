package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/internal/service"
	"github.com/JavierCodely/sistema-educativo/internal/workflow"
)

func newSubjectsCmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List subjects with their academic state and cursability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subjects, err := a.gateway.ListSubjects(cmd.Context())
			if err != nil {
				return err
			}
			renderSubjects(a.out, subjects, year)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "only show this curriculum year")
	return cmd
}

func newBoardsCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List exam boards open for enrollment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			boards := ctrl.Available()
			if all {
				boards = ctrl.Boards()
			}
			if len(boards) == 0 {
				fmt.Fprintln(a.out, workflow.MsgNoOpenSubjects)
				return nil
			}
			renderBoards(a.out, boards)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include subjects you are already enrolled in")
	return cmd
}

func newEnrollmentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "enrollments",
		Short: "List your exam enrollments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enrollments, err := a.gateway.ListEnrollments(cmd.Context())
			if err != nil {
				return err
			}
			if len(enrollments) == 0 {
				fmt.Fprintln(a.out, workflow.MsgNoEnrollments)
				return nil
			}
			renderEnrollments(a.out, enrollments)
			return nil
		},
	}
}

func newEnrollCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <boardID>",
		Short: "Enroll in an exam board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			if group, _, ok := service.FindBoard(ctrl.Boards(), args[0]); ok && group.Blocked() {
				return fmt.Errorf("%s has pending prerequisites", group.SubjectName)
			}
			switch ctrl.Enroll(cmd.Context(), args[0]) {
			case workflow.OutcomeSucceeded:
				return nil
			case workflow.OutcomeIgnored:
				return fmt.Errorf("board %q is not open for enrollment", args[0])
			default:
				return errActionFailed
			}
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancel <subjectID> <boardID>",
		Short: "Cancel an exam enrollment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			target, ok := findEnrollment(ctrl.Enrollments(), args[0], args[1])
			if !ok || !ctrl.RequestCancel(target) {
				return fmt.Errorf("no enrollment for subject %q on board %q", args[0], args[1])
			}

			if !yes {
				question := fmt.Sprintf("Cancel your enrollment in %s (%s, %s)?", target.SubjectName, target.BoardName, target.Date)
				if !confirm(a.in, a.out, question) {
					ctrl.AbortCancel()
					fmt.Fprintln(a.out, "Cancellation aborted.")
					return nil
				}
			}

			if ctrl.ConfirmCancel(cmd.Context()) != workflow.OutcomeSucceeded {
				return errActionFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newNotificationsCmd(a *app) *cobra.Command {
	var unread bool
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List your notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.gateway.ListNotifications(cmd.Context(), unread)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(a.out, "No notifications.")
				return nil
			}
			renderNotifications(a.out, items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")

	cmd.AddCommand(&cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gateway.MarkNotificationRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Notification marked as read.")
			return nil
		},
	})
	return cmd
}

func findEnrollment(enrollments []models.ExamEnrollment, subjectID, boardID string) (models.ExamEnrollment, bool) {
	for _, e := range enrollments {
		if e.Matches(subjectID, boardID) {
			return e, true
		}
	}
	return models.ExamEnrollment{}, false
}

// confirm asks a yes/no question; anything but an explicit yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true
	default:
		return false
	}
}

// subjectRows filters by year while evaluating cursability against the whole catalog.
func subjectRows(subjects []models.Subject, year int) []subjectRow {
	rows := make([]subjectRow, 0, len(subjects))
	for _, s := range subjects {
		if year > 0 && s.Year != year {
			continue
		}
		result := service.EvaluateCursability(s, subjects)
		missing := make([]string, 0, len(result.MissingPrerequisites))
		for _, m := range result.MissingPrerequisites {
			missing = append(missing, m.ID)
		}
		rows = append(rows, subjectRow{Subject: s, Eligible: result.Eligible, Missing: missing})
	}
	return rows
}
