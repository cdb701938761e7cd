package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AntonStoeckl/library-lending/library/auth"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

var errPasswordMismatch = errors.New("passwords do not match")

func newUserCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserCreateCmd(version))

	return cmd
}

func newUserCreateCmd(version string) *cobra.Command {
	var name, email, phone string
	var rights []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user, prompting for the password",
		Example: `  librarian user create --name Elena --email elena@library.test --right librarian`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			codes, err := parseRights(rights)
			if err != nil {
				return err
			}

			password, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			rt, err := openRuntime(ctx, version, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			user, err := rt.store.InsertUser(ctx, librarystore.User{
				Name:         name,
				Email:        strings.TrimSpace(email),
				PasswordHash: hash,
				Phone:        phone,
			})
			if err != nil {
				return err
			}

			for _, code := range codes {
				if err := rt.store.AssignRight(ctx, user.ID, code); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s) with rights %s\n",
				user.ID, user.Email, librarystore.NewRights(codes...))

			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringSliceVar(&rights, "right", nil, "Right to grant: librarian, student or admin (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func parseRights(names []string) ([]librarystore.RightCode, error) {
	codes := make([]librarystore.RightCode, 0, len(names))

outer:
	for _, name := range names {
		for _, right := range librarystore.KnownRights() {
			if right.Name == strings.TrimSpace(name) {
				codes = append(codes, right.Code)
				continue outer
			}
		}

		return nil, fmt.Errorf("%w: %q", librarystore.ErrUnknownRight, name)
	}

	return codes, nil
}

// promptPassword reads the password twice without echo on a terminal, or one line from a pipe.
func promptPassword(in io.Reader, out io.Writer) (string, error) {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}

		return validPassword(strings.TrimRight(line, "\r\n"))
	}

	first, err := readHidden(file, out, "Password: ")
	if err != nil {
		return "", err
	}

	second, err := readHidden(file, out, "Repeat password: ")
	if err != nil {
		return "", err
	}

	if first != second {
		return "", errPasswordMismatch
	}

	return validPassword(first)
}

func readHidden(file *os.File, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	raw, err := term.ReadPassword(int(file.Fd()))
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func validPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", auth.ErrInvalidCredentials
	}

	return password, nil
}
