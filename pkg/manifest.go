package relbump

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// manifestVersionRe matches a `version = "..."` line. Only the first match
// is ever used; it is assumed to be the [package] version, which does not
// hold if a dependency table with an inline version line comes first.
var manifestVersionRe = regexp.MustCompile(`(?m)^(version[ \t]*=[ \t]*")([^"\n]*)("[ \t\r]*)$`)

// ManifestVersion returns the value of the first version line in text.
func ManifestVersion(text string) (string, error) {
	m := manifestVersionRe.FindStringSubmatch(text)
	if m == nil {
		return "", newError(KindManifest, "read version", errors.New(`no line matching ^version = "..."$`))
	}
	return m[2], nil
}

// SetVersion replaces the value of the first version line in text with v.
// Every other byte of text is preserved.
func SetVersion(text string, v *semver.Version) (string, error) {
	loc := manifestVersionRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", newError(KindManifest, "set version", errors.New(`no line matching ^version = "..."$`))
	}
	// loc[4]:loc[5] is the value group.
	return text[:loc[4]] + v.String() + text[loc[5]:], nil
}

// WriteManifestVersion rewrites the manifest at path with version v. The
// file is replaced in one rename so a failure never leaves it half written.
func WriteManifestVersion(path string, v *semver.Version) error {
	info, err := os.Stat(path)
	if err != nil {
		return newError(KindManifest, path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return newError(KindManifest, path, err)
	}
	updated, err := SetVersion(string(data), v)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Op = path
		}
		return err
	}
	if err := writeFileAtomic(path, []byte(updated), info.Mode().Perm()); err != nil {
		return newError(KindManifest, path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "replace manifest")
}
