// Package vcs initializes the project repository.
package vcs

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// DirName is the repository metadata directory.
const DirName = git.GitDirName

// DefaultCommitMessage is the message of the initial commit.
const DefaultCommitMessage = "Initial commit (scaffolded by cratekit)"

// VCS is a version-control system driven as an opaque command sequence.
// Paths are relative to the project root.
type VCS interface {
	Init(ctx context.Context, dir string) error
	StageAll(ctx context.Context, dir string) error
	Commit(ctx context.Context, dir, message string) error
}

// Git implements VCS with go-git over a billy filesystem.
type Git struct {
	fs     billy.Filesystem
	author *object.Signature
	now    func() time.Time
}

// NewGit creates a Git rooted at fs. author is "Name" or "Name <email>";
// an empty author commits as cratekit.
func NewGit(fs billy.Filesystem, author string) *Git {
	return &Git{
		fs:     fs,
		author: parseAuthor(author),
		now:    time.Now,
	}
}

func parseAuthor(author string) *object.Signature {
	author = strings.TrimSpace(author)
	if author == "" {
		return &object.Signature{Name: "cratekit", Email: "cratekit@localhost"}
	}
	if addr, err := mail.ParseAddress(author); err == nil {
		name := addr.Name
		if name == "" {
			name = addr.Address
		}
		return &object.Signature{Name: name, Email: addr.Address}
	}
	return &object.Signature{Name: author, Email: strings.ReplaceAll(strings.ToLower(author), " ", ".") + "@localhost"}
}

func (g *Git) open(dir string, create bool) (*git.Repository, error) {
	worktree, err := g.fs.Chroot(dir)
	if err != nil {
		return nil, err
	}
	dot, err := worktree.Chroot(DirName)
	if err != nil {
		return nil, err
	}
	storage := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())

	if create {
		return git.Init(storage, worktree)
	}
	return git.Open(storage, worktree)
}

// Init implements VCS.
func (g *Git) Init(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := g.open(dir, true); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// StageAll implements VCS.
func (g *Git) StageAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo, err := g.open(dir, false)
	if err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

// Commit implements VCS.
func (g *Git) Commit(ctx context.Context, dir, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo, err := g.open(dir, false)
	if err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("git commit: %w", err)
	}

	sig := *g.author
	sig.When = g.now()
	if _, err := wt.Commit(message, &git.CommitOptions{Author: &sig, Committer: &sig}); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}
