package provision

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
)

const commitMessage = "Updating deployment bundle"

// CommitBundle stages the bundle files and the generation baseline in the
// repository at targetPath and commits them. Returns the commit sha, or
// an empty string when the bundle did not change.
func CommitBundle(targetPath string) (string, error) {
	repo, err := git.PlainOpen(targetPath)
	if err == git.ErrRepositoryNotExists {
		return "", fmt.Errorf("%s is not a git repository", targetPath)
	}
	if err != nil {
		return "", errors.WithMessage(err, "cannot open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", errors.WithMessage(err, "cannot get worktree")
	}

	for _, path := range []string{TfvarsFile, ConsoleEnvFile, DockerfileFile, gantryDir} {
		_, err = worktree.Add(path)
		if err != nil {
			return "", errors.WithMessagef(err, "cannot stage %s", filepath.Base(path))
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return "", errors.WithMessage(err, "cannot get git state")
	}
	if status.IsClean() {
		return "", nil
	}

	sha, err := worktree.Commit(commitMessage, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Gantry",
			Email: "gantry@gantry.dev",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", err
	}

	return sha.String(), nil
}
