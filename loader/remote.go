// Copyright 2026 The capnlite Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package loader

import (
	"fmt"
	"os"
	osuser "os/user"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/melbahja/goph"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

// runFrontendRemote runs the external schema compiler on a remote build
// host over SSH, for environments where the local machine does not carry
// the `capnp` front-end (selected by [Config.RemoteHost]).
//
// schemaBytes is the raw content of the .capnp file to compile; it is
// uploaded to a scratch path on the remote host rather than assuming the
// remote filesystem mirrors the local include paths.
func runFrontendRemote(remote, capnpPath string, schemaBytes []byte, includeNames []string) ([]byte, error) {
	user, addr, hasUser := strings.Cut(remote, "@")
	if !hasUser {
		addr = user
		u, err := osuser.Current()
		if err != nil {
			return nil, err
		}
		user = u.Username
	}

	auth, _ := goph.UseAgent()
	auth = append(auth, ssh.KeyboardInteractive(askPassphrase))

	client, err := goph.NewUnknown(user, addr, auth)
	if err != nil {
		return nil, fmt.Errorf("loader: could not dial remote build host: %w", err)
	}
	defer client.Close()

	tmpdir := "/tmp/capnlite-" + uuid.NewString()
	mkdir, err := client.Command("mkdir", "-p", tmpdir)
	if err != nil {
		return nil, err
	}
	if err := mkdir.Run(); err != nil {
		return nil, fmt.Errorf("loader: could not create remote scratch dir: %w", err)
	}
	defer func() {
		rm, err := client.Command("rm", "-rf", tmpdir)
		if err == nil {
			_ = rm.Run()
		}
	}()

	sftp, err := client.NewSftp()
	if err != nil {
		return nil, err
	}
	remoteFile := tmpdir + "/schema.capnp"
	f, err := sftp.Create(remoteFile)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(schemaBytes); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	args := []string{"compile", "-o" + sinkSpec}
	for _, name := range includeNames {
		args = append(args, "-I"+name)
	}
	args = append(args, remoteFile)

	cmd, err := client.Command(capnpPath, args...)
	if err != nil {
		return nil, err
	}
	out, err := cmd.Output()
	if err != nil {
		stderrColor := ""
		if term.IsTerminal(int(os.Stderr.Fd())) {
			stderrColor = "\x1b[31m"
		}
		return nil, &SchemaCompileError{
			CommandLine: commandLine(capnpPath, args) + " (on " + remote + ")",
			Stderr:      stderrColor + err.Error(),
			ExitCode:    1,
		}
	}
	return out, nil
}

func askPassphrase(name, instruction string, questions []string, echos []bool) ([]string, error) {
	answers := make([]string, len(questions))
	for i, q := range questions {
		fmt.Fprintf(os.Stderr, "%s ", q)
		if echos[i] {
			if _, err := fmt.Scanln(&answers[i]); err != nil {
				return nil, err
			}
			continue
		}
		answer, err := term.ReadPassword(syscall.Stdin)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		answers[i] = string(answer)
	}
	return answers, nil
}
