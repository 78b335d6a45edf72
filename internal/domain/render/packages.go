package render

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
)

const (
	aptSourcesDir = "/etc/apt/sources.list.d"
	aptKeyringDir = "/etc/apt/trusted.gpg.d"
	// continuation indents package names under the install command.
	continuation = " \\\n        "
)

var keyNameReplacer = strings.NewReplacer("https://", "", "http://", "", "/", "_", ":", "_")

// keyringPath returns the keyring file a signing key is stored in.
func keyringPath(url string) string {
	return fmt.Sprintf("%s/%s.gpg", aptKeyringDir, keyNameReplacer.Replace(url))
}

// sourcesPath returns the list file an apt source line is written to. The
// name comes from the repository URL and suite, so adding the same source
// twice rewrites one file.
func sourcesPath(line string) string {
	fields := strings.Fields(line)
	var parts []string
	if len(fields) > 0 && fields[0] == "deb-src" {
		parts = append(parts, "src")
	}
	for i, f := range fields {
		if strings.Contains(f, "://") {
			parts = append(parts, strings.TrimRight(f, "/"))
			if i+1 < len(fields) {
				parts = append(parts, fields[i+1])
			}
			break
		}
	}
	name := strings.Trim(keyNameReplacer.Replace(strings.Join(parts, "_")), "_")
	return fmt.Sprintf("%s/%s.list", aptSourcesDir, name)
}

// packageCommands returns the shell commands that install p, or nil when p
// installs nothing for its distribution.
func packageCommands(p *recipe.Packages) []string {
	if p.IsEmpty() {
		return nil
	}
	if p.Distro.IsRPM() {
		return yumCommands(p)
	}
	return aptCommands(p)
}

func aptCommands(p *recipe.Packages) []string {
	var cmds []string

	var prereqs []string
	if len(p.AptKeys) > 0 {
		prereqs = append(prereqs, "ca-certificates", "gnupg", "wget")
	}
	if len(p.PPAs) > 0 {
		prereqs = append(prereqs, "software-properties-common")
	}
	if len(prereqs) > 0 {
		cmds = append(cmds, "apt-get update -y && DEBIAN_FRONTEND=noninteractive apt-get install -y --no-install-recommends "+
			strings.Join(prereqs, " "))
	}

	for _, key := range p.AptKeys {
		cmds = append(cmds, fmt.Sprintf("wget -qO - %s | gpg --dearmor -o %s", key, keyringPath(key)))
	}
	for _, repo := range p.AptRepositories {
		cmds = append(cmds, fmt.Sprintf("echo \"%s\" > %s", repo, sourcesPath(repo)))
	}
	for _, ppa := range p.PPAs {
		cmds = append(cmds, fmt.Sprintf("apt-add-repository %s -y", ppa))
	}

	cmds = append(cmds, "apt-get update -y")
	if len(p.Apt) > 0 {
		cmds = append(cmds, "DEBIAN_FRONTEND=noninteractive apt-get install -y --no-install-recommends"+
			continuation+strings.Join(p.Apt, continuation))
	}
	return append(cmds, "rm -rf /var/lib/apt/lists/*")
}

func yumCommands(p *recipe.Packages) []string {
	var cmds []string

	var prereqs []string
	if p.Epel {
		prereqs = append(prereqs, "epel-release")
	}
	if len(p.YumRepositories) > 0 {
		prereqs = append(prereqs, "yum-utils")
	}
	if len(prereqs) > 0 {
		cmds = append(cmds, "yum install -y "+strings.Join(prereqs, " "))
	}

	for _, key := range p.YumKeys {
		cmds = append(cmds, "rpm --import "+key)
	}
	for _, repo := range p.YumRepositories {
		cmds = append(cmds, "yum-config-manager --add-repo "+repo)
	}

	if len(p.Yum) > 0 {
		cmds = append(cmds, "yum install -y"+continuation+strings.Join(p.Yum, continuation))
	}
	return append(cmds, "rm -rf /var/cache/yum/*")
}
