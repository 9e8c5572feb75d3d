package github

import (
	"regexp"
	"strings"

	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/integrations"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.New(errors.ErrCodeInvalidRepo, "owner is required")
	}
	if !validOwner.MatchString(owner) {
		return errors.New(errors.ErrCodeInvalidRepo, "invalid owner %q: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen", owner)
	}
	return nil
}

// ValidateRepoName validates a GitHub repository name.
func ValidateRepoName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidRepo, "repo is required")
	}
	if name == "." || name == ".." || !validRepo.MatchString(name) {
		return errors.New(errors.ErrCodeInvalidRepo, "invalid repo %q: must be 1-100 alphanumeric characters, hyphens, underscores, or dots", name)
	}
	return nil
}

// ValidateRepo validates a full "owner/name" repository identifier.
func ValidateRepo(repo string) error {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return errors.New(errors.ErrCodeInvalidRepo, "invalid repo %q: use owner/repo", repo)
	}
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepoName(name)
}

// ParseRepoRef accepts "owner/repo" or any GitHub repository URL form
// (https, git@, git://) and returns the validated "owner/repo" identifier.
func ParseRepoRef(ref string) (string, error) {
	s := integrations.NormalizeRepoURL(ref)
	for _, prefix := range []string{"https://github.com/", "http://github.com/"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			s = strings.TrimSuffix(s, "/")
			break
		}
	}
	if err := ValidateRepo(s); err != nil {
		return "", err
	}
	return s, nil
}
