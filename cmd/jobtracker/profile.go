package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/profile"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or submit your job seeker profile",
	}
	cmd.AddCommand(a.profileShowCmd(), a.profileSubmitCmd())
	return cmd
}

func (a *app) profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print your profile as YAML",
		Long:  "Print your profile in the YAML form `profile submit --file` reads. Without a saved profile, the form is prefilled from your account.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, user, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			stored, err := c.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			form := profile.FromProfile(stored)
			if stored == nil {
				form.Email = user.Email
				form.FirstName, form.LastName, _ = strings.Cut(user.Name, " ")
				form.Experience = []types.Experience{{}}
				form.Education = []types.Education{{}}
			}

			enc := yaml.NewEncoder(a.out)
			enc.SetIndent(2)
			if err := enc.Encode(form); err != nil {
				return fmt.Errorf("failed to encode profile: %w", err)
			}
			if err := enc.Close(); err != nil {
				return fmt.Errorf("failed to encode profile: %w", err)
			}
			if stored != nil {
				if stored.PhotoURL != "" {
					a.say("photo:  %s", stored.PhotoURL)
				}
				if stored.ResumeURL != "" {
					a.say("resume: %s", stored.ResumeURL)
				}
			}
			return nil
		},
	}
}

func (a *app) profileSubmitCmd() *cobra.Command {
	var file, photo, resume string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate and submit your profile",
		Long:  "Read a profile from a YAML file, validate it and any attachments locally, and only then send it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := readProfileForm(file)
			if err != nil {
				return err
			}
			if photo != "" {
				if form.Photo, err = profile.OpenAttachment(photo, profile.MaxPhotoSize); err != nil {
					return err
				}
			}
			if resume != "" {
				if form.Resume, err = profile.OpenAttachment(resume, profile.MaxResumeSize); err != nil {
					return err
				}
			}
			if err := form.Validate(); err != nil {
				return a.invalid(err)
			}

			c, _, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			msg, err := form.Submit(cmd.Context(), c)
			if err != nil {
				return a.invalid(err)
			}
			if msg == "" {
				msg = "Profile saved"
			}
			a.say("✓ %s", msg)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "Profile YAML file (required)")
	f.StringVar(&photo, "photo", "", "Profile photo (an image)")
	f.StringVar(&resume, "resume", "", "Resume (PDF)")
	mustMarkRequired(cmd, "file")
	return cmd
}

func readProfileForm(path string) (profile.Form, error) {
	var form profile.Form
	data, err := os.ReadFile(path)
	if err != nil {
		return form, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	// rows left entirely blank, as `profile show` prints them, are dropped
	form.Experience = slices.DeleteFunc(form.Experience, func(e types.Experience) bool { return e == types.Experience{} })
	form.Education = slices.DeleteFunc(form.Education, func(e types.Education) bool { return e == types.Education{} })
	return form, nil
}
