// Command hash-generator prints a bcrypt hash for the operator password,
// suitable for ESTATE_AUTH_OPERATOR_PASSWORD_HASH.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/estate-api/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	flags := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	password := flags.String("password", "", "password to hash (read from stdin when empty)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	pw := *password
	if pw == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPassword(pw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
