package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"studyroom/internal/api"
	"studyroom/internal/app"
	"studyroom/internal/tui"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func newApplication() (*app.Application, error) {
	// A .env next to the binary or in the working dir may set
	// STUDYROOM_BASE_URL; absence is fine.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	return app.NewApplication(cfg), nil
}

func apiClient(a *app.Application) *api.Client {
	return api.NewClient(a.Config.BaseURL, a.Auth.AccessToken)
}

func requireLogin(a *app.Application) error {
	if !a.Auth.LoggedIn() {
		return fmt.Errorf("not logged in; run `studyroom login` first")
	}
	return nil
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the school platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				line, _ := reader.ReadString('\n')
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, _ := reader.ReadString('\n')
				password = strings.TrimSpace(line)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			resp, err := apiClient(a).Login(ctx, email, password)
			if err != nil {
				return err
			}
			a.SetAuth(app.AuthState{
				AccessToken: resp.AccessToken,
				Name:        resp.Name,
				Email:       resp.Email,
				Phone:       resp.Phone,
				Role:        resp.Role,
				SchoolID:    resp.SchoolID,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", resp.Name, resp.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear credentials and chat history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			a.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newAskCmd() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the study agent a single question without the TUI",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(a); err != nil {
				return err
			}
			question := strings.Join(args, " ")

			sess := a.Store.CurrentSession()
			if fresh || sess.HasUserMessage() {
				sess = a.Store.NewSession()
			}

			timeout := time.Duration(a.Config.AgentTimeoutSeconds) * time.Second
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			answer, err := a.Send(ctx, sess.ID, question)
			if err != nil {
				return err
			}
			if mm, ok := app.DetectMindMap(answer); ok {
				fmt.Fprintln(cmd.OutOrStdout(), mm.Outline())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fresh, "new", false, "always start a new session")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past study sessions grouped by date",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			groups := app.HistoryGroups(a.Store.Sessions(), time.Now())
			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversations yet.")
				return nil
			}
			for _, g := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", g.Label)
				for _, sess := range g.Sessions {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s  (%d messages)\n", sess.Title, len(sess.Messages))
				}
			}
			return nil
		},
	}
}

func newSchoolsCmd() *cobra.Command {
	var page, limit int
	var name, city, state string
	cmd := &cobra.Command{
		Use:   "schools",
		Short: "List schools",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(a); err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.Config.PageLimit
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			result, err := apiClient(a).GetSchools(ctx, api.SchoolParams{
				ListParams: api.ListParams{Page: page, Limit: limit},
				Name:       name,
				City:       city,
				State:      state,
			})
			if err != nil {
				return err
			}
			for _, s := range result.Data {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %s (%s/%s)\n", s.ID, s.Name, s.City, s.State)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d total\n", page, result.Meta.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&name, "name", "", "filter by name")
	cmd.Flags().StringVar(&city, "city", "", "filter by city")
	cmd.Flags().StringVar(&state, "state", "", "filter by state")
	return cmd
}

func newSubjectsCmd() *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(a); err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.Config.PageLimit
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			result, err := apiClient(a).GetSubjects(ctx, api.ListParams{Page: page, Limit: limit})
			if err != nil {
				return err
			}
			for _, s := range result.Data {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %s\n", s.ID, s.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d total\n", page, result.Meta.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config file: %s\n", app.DefaultConfigPath())
			fmt.Fprintf(cmd.OutOrStdout(), "base_url: %s\n", cfg.BaseURL)
			fmt.Fprintf(cmd.OutOrStdout(), "agent_timeout_seconds: %d\n", cfg.AgentTimeoutSeconds)
			fmt.Fprintf(cmd.OutOrStdout(), "page_limit: %d\n", cfg.PageLimit)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the resolved configuration to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			path := app.DefaultConfigPath()
			cfg, err := app.LoadConfig(path)
			if err != nil {
				return err
			}
			if err := app.SaveConfig(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

func newUsersCmd() *cobra.Command {
	var page, limit int
	var name string
	cmd := &cobra.Command{
		Use:       "users [role]",
		Short:     "List users of one role",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"student", "teacher", "director", "supervisor", "admin"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(a); err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.Config.PageLimit
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			role := strings.ToUpper(args[0])
			result, err := apiClient(a).GetUsersByRole(ctx, role, api.UserParams{
				ListParams: api.ListParams{Page: page, Limit: limit},
				Name:       name,
			})
			if err != nil {
				return err
			}
			for _, u := range result.Data {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %s <%s>\n", u.ID, u.Name, u.Email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d total\n", page, result.Meta.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&name, "name", "", "filter by name")
	return cmd
}

func newDocumentsCmd() *cobra.Command {
	var title, series, level, status string
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List study documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(a); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			docs, err := apiClient(a).GetDocuments(ctx, api.DocumentParams{
				Title:            title,
				Series:           series,
				EducationLevel:   level,
				ProcessingStatus: status,
			})
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No documents found.")
				return nil
			}
			for _, d := range docs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %s [%s]\n", d.ID, d.Title, d.ProcessingStatus)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "filter by title")
	cmd.Flags().StringVar(&series, "series", "", "filter by series")
	cmd.Flags().StringVar(&level, "level", "", "filter by education level")
	cmd.Flags().StringVar(&status, "status", "", "filter by processing status")
	cmd.AddCommand(newDocumentUploadCmd())
	return cmd
}

func newDocumentUploadCmd() *cobra.Command {
	var title, author, description, series, level, subjectID string
	cmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a study document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(a); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			if title == "" {
				title = filepath.Base(args[0])
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			doc, err := apiClient(a).UploadDocument(ctx, api.DocumentUpload{
				Title:          title,
				Author:         author,
				Description:    description,
				Series:         series,
				EducationLevel: level,
				SubjectID:      subjectID,
				FileName:       filepath.Base(args[0]),
				File:           f,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s) [%s]\n", doc.Title, doc.ID, doc.ProcessingStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "document title (defaults to the file name)")
	cmd.Flags().StringVar(&author, "author", "", "document author")
	cmd.Flags().StringVar(&description, "description", "", "document description")
	cmd.Flags().StringVar(&series, "series", "", "school series")
	cmd.Flags().StringVar(&level, "level", "", "education level")
	cmd.Flags().StringVar(&subjectID, "subject", "", "subject id")
	_ = cmd.MarkFlagRequired("series")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:     "studyroom",
		Short:   "Terminal study room for the Eduk school platform",
		Long:    "studyroom is a terminal client for the Eduk school platform's study room: a multi-session chat with the platform's AI study agent, with date-grouped history, mind-map answers, and access to the platform's school and subject listings.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication()
			if err != nil {
				return err
			}
			if err := requireLogin(a); err != nil {
				return err
			}
			return tui.Run(a)
		},
	}

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newAskCmd(),
		newHistoryCmd(),
		newSchoolsCmd(),
		newSubjectsCmd(),
		newUsersCmd(),
		newDocumentsCmd(),
		newConfigCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
