package release

import (
	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/relfetch/pkg/errors"
)

// IsNewer reports whether tag names a later semantic version than installed.
// Both accept an optional "v" prefix.
func IsNewer(tag, installed string) (bool, error) {
	latest, err := semver.NewVersion(tag)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidTag, err, "parse tag %q", tag)
	}
	current, err := semver.NewVersion(installed)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse installed version %q", installed)
	}
	return latest.GreaterThan(current), nil
}
