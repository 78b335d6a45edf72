// Package buildutil provides the shell command sequences building blocks use
// to fetch, build and register software inside an image.
package buildutil

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
)

// WorkDir is the scratch directory sources are downloaded and built in.
const WorkDir = "/var/tmp"

// LdconfigFile lists library directories registered with the dynamic linker.
const LdconfigFile = "/etc/ld.so.conf.d/ogbon.conf"

// ErrUnknownArchive is returned for downloads that are not a known archive.
var ErrUnknownArchive = errors.New("unknown archive format")

// archiveFlags maps archive suffixes to tar decompression flags.
var archiveFlags = []struct {
	suffix string
	flag   string
}{
	{".tar.gz", "-z"},
	{".tgz", "-z"},
	{".tar.bz2", "-j"},
	{".tbz", "-j"},
	{".tar.xz", "-J"},
	{".txz", "-J"},
	{".tar", ""},
}

// Archive describes a downloaded source tarball.
type Archive struct {
	URL  string
	File string // local path of the tarball
	Dir  string // directory the tarball unpacks to
	flag string
}

// NewArchive derives the local paths for url. The unpacked directory is
// assumed to be named after the tarball, as is the convention for release
// tarballs (ucx-1.17.0.tar.gz unpacks to ucx-1.17.0).
func NewArchive(url string) (Archive, error) {
	base := path.Base(url)
	for _, a := range archiveFlags {
		if strings.HasSuffix(base, a.suffix) {
			return Archive{
				URL:  url,
				File: path.Join(WorkDir, base),
				Dir:  path.Join(WorkDir, strings.TrimSuffix(base, a.suffix)),
				flag: a.flag,
			}, nil
		}
	}
	return Archive{}, fmt.Errorf("%w: %s", ErrUnknownArchive, base)
}

// WithDir returns a copy that unpacks to dir under WorkDir.
func (a Archive) WithDir(dir string) Archive {
	if dir != "" {
		a.Dir = path.Join(WorkDir, dir)
	}
	return a
}

// Fetch returns the commands that download and unpack the archive.
func (a Archive) Fetch() []string {
	extract := fmt.Sprintf("tar -x -f %s -C %s", a.File, WorkDir)
	if a.flag != "" {
		extract += " " + a.flag
	}
	return []string{
		fmt.Sprintf("mkdir -p %s && wget -q -nc --no-check-certificate -P %s %s", WorkDir, WorkDir, a.URL),
		"mkdir -p " + WorkDir + " && " + extract,
	}
}

// Cleanup removes the tarball and the unpacked directory.
func (a Archive) Cleanup() string {
	return Cleanup(a.Dir, a.File)
}

// Download returns the command that fetches url into WorkDir and the local
// file path.
func Download(url string) (string, string) {
	file := path.Join(WorkDir, path.Base(url))
	return fmt.Sprintf("mkdir -p %s && wget -q -nc --no-check-certificate -P %s %s", WorkDir, WorkDir, url), file
}

// Clone returns the command that shallow-clones repo at branch into
// WorkDir/dest.
func Clone(repo, branch, dest string) string {
	args := []string{"git", "clone", "--depth=1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, repo, dest)
	return fmt.Sprintf("mkdir -p %s && cd %s && %s && cd -", WorkDir, WorkDir, strings.Join(args, " "))
}

// RepoDir returns the directory a repository URL clones to by default.
func RepoDir(repo string) string {
	return strings.TrimSuffix(path.Base(repo), ".git")
}

// ConfigureMake returns an autotools configure/make/install sequence run in
// dir.
func ConfigureMake(dir, prefix string, opts []string) []string {
	configure := []string{"./configure", "--prefix=" + prefix}
	configure = append(configure, opts...)
	return []string{
		"cd " + dir,
		strings.Join(configure, " "),
		"make -j$(nproc)",
		"make -j$(nproc) install",
	}
}

// CMakeBuild returns a configure/build/install sequence for a CMake project
// in source, built out of tree in source/build.
func CMakeBuild(source, prefix string, opts []string) []string {
	build := source + "/build"
	configure := []string{"cmake", "-DCMAKE_INSTALL_PREFIX=" + prefix}
	configure = append(configure, opts...)
	configure = append(configure, source)
	return []string{
		fmt.Sprintf("mkdir -p %s && cd %s && %s", build, build, strings.Join(configure, " ")),
		fmt.Sprintf("cmake --build %s --target all -- -j$(nproc)", build),
		fmt.Sprintf("cmake --build %s --target install -- -j$(nproc)", build),
	}
}

// Ldconfig registers libdir with the dynamic linker.
func Ldconfig(libdir string) string {
	return fmt.Sprintf("echo \"%s\" >> %s && ldconfig", libdir, LdconfigFile)
}

// Cleanup removes build leftovers.
func Cleanup(paths ...string) string {
	return "rm -rf " + strings.Join(paths, " ")
}

// UpdateAlternatives makes versioned tools the default, e.g. gcc-10 as gcc.
func UpdateAlternatives(tools []string, suffix string, priority int) string {
	cmds := make([]string, 0, len(tools))
	for _, t := range tools {
		cmds = append(cmds, fmt.Sprintf("update-alternatives --install /usr/bin/%s %s $(which %s%s) %d",
			t, t, t, suffix, priority))
	}
	return strings.Join(cmds, " && ")
}

// EnvOptions selects the variables PrefixEnvironment sets.
type EnvOptions struct {
	Include bool
	Lib     bool
	Bin     bool
	// LdLibraryPath adds lib to LD_LIBRARY_PATH. Blocks set it when the
	// library directory is not registered with ldconfig.
	LdLibraryPath bool
}

// PrefixEnvironment returns the standard variables for software installed
// under prefix.
func PrefixEnvironment(prefix string, opts EnvOptions) map[string]string {
	env := make(map[string]string)
	if opts.Include {
		env["CPATH"] = prefix + "/include:$CPATH"
	}
	if opts.Lib {
		env["LIBRARY_PATH"] = prefix + "/lib:$LIBRARY_PATH"
	}
	if opts.LdLibraryPath {
		env["LD_LIBRARY_PATH"] = prefix + "/lib:$LD_LIBRARY_PATH"
	}
	if opts.Bin {
		env["PATH"] = prefix + "/bin:$PATH"
	}
	return env
}

// sharedPrefixes hold software from many sources, so no single block is
// recorded as providing them.
var sharedPrefixes = map[string]bool{
	"/":          true,
	"/usr":       true,
	"/usr/local": true,
	"/opt":       true,
}

// Provide records prefix as populated by sh unless it is a shared system
// prefix.
func Provide(sh *recipe.Shell, prefixes ...string) {
	for _, p := range prefixes {
		if !sharedPrefixes[strings.TrimSuffix(p, "/")] && p != "/" {
			sh.Provide(p)
		}
	}
}

// Environment builds an exported environment directive, or nil when env is
// empty.
func Environment(env map[string]string) *recipe.Environment {
	if len(env) == 0 {
		return nil
	}
	return &recipe.Environment{Variables: env, Export: true}
}
