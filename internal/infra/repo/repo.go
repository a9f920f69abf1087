// Package repo locates the enclosing git repository and exposes the
// session context captured at startup.
package repo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Ensure Repo implements the domain port.
var _ domain.Repo = (*Repo)(nil)

// Repo wraps a detected git repository.
type Repo struct {
	repo *git.Repository
	root string
}

// Detect opens the repository enclosing dir, walking up like git does.
func Detect(dir string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, domain.ErrNotGitRepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository worktree: %w", err)
	}
	return &Repo{repo: r, root: wt.Filesystem.Root()}, nil
}

// Root returns the repository root directory.
func (r *Repo) Root() string {
	return r.root
}

// GitDir returns the .git directory path.
func (r *Repo) GitDir() string {
	return filepath.Join(r.root, ".git")
}

// Branch returns the current branch name, or the short HEAD hash when
// detached.
func (r *Repo) Branch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String()[:7], nil
}

// HeadSHA returns the commit hash HEAD points at.
func (r *Repo) HeadSHA() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
