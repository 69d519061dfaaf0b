package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

type (
	WriteHook func(io.Writer) error

	// Copier copies subtrees of a template tree into a project directory.
	// Files ending in .tmplt are rendered with {% %} delimiters and lose the
	// suffix; every other file is copied byte for byte.
	Copier struct {
		FS   fs.FS
		Root string
	}

	TemplateData struct {
		Name       string
		TypeScript bool
	}
)

const (
	tmpltExt = ".tmplt"

	maxOpenFiles = 7
)

var (
	//go:embed all:templates
	templatesFS embed.FS
)

func NewCopier() *Copier {
	return &Copier{FS: templatesFS, Root: "templates"}
}

func WriteToFile(dir, name string, hook WriteHook) (err error) {
	fd, err := os.Create(filepath.Clean(filepath.Join(dir, name)))
	if err != nil {
		return fmt.Errorf("failed to create %q file: %w", name, err)
	}

	defer func() {
		if err1 := fd.Close(); err == nil && err1 != nil {
			err = fmt.Errorf("failed to close %q: %w", name, err1)
		}
	}()

	err = hook(fd)
	if err != nil {
		return fmt.Errorf("failed to write to %q: %w", name, err)
	}

	return nil
}

// Copy writes the template subtree named by src into dest, creating
// directories as needed and overwriting files that already exist.
func (c *Copier) Copy(dest, src string, data any) error {
	prefix := path.Join(c.Root, src)

	if _, err := fs.ReadDir(c.FS, prefix); err != nil {
		return fmt.Errorf("%q is not a template directory: %w", src, err)
	}

	srcDirs := []string{prefix}
	srcFiles := make([]string, 0, 5)

	for len(srcDirs) > 0 {
		srcDir := srcDirs[0]
		srcDirs = srcDirs[1:]

		items, err := fs.ReadDir(c.FS, srcDir)
		if err != nil {
			return fmt.Errorf("failed to read template directory %q: %w", srcDir, err)
		}

		for _, item := range items {
			name := path.Join(srcDir, item.Name())

			if !item.IsDir() {
				srcFiles = append(srcFiles, name)

				continue
			}

			srcDirs = append(srcDirs, name)

			rel := strings.TrimPrefix(name, prefix+"/")
			if err = os.MkdirAll(filepath.Join(dest, filepath.FromSlash(rel)), 0750); err != nil {
				return fmt.Errorf("failed to create directory %q in %s: %w", rel, dest, err)
			}
		}
	}

	if err := os.MkdirAll(dest, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxOpenFiles)
	errs := make([]error, len(srcFiles))

	for i, srcFile := range srcFiles {
		i, srcFile := i, srcFile

		wg.Add(1)

		go func() {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			rel := filepath.FromSlash(strings.TrimPrefix(srcFile, prefix+"/"))

			errs[i] = WriteToFile(dest, strings.TrimSuffix(rel, tmpltExt), c.hook(srcFile, data))
		}()
	}

	wg.Wait()

	return errors.Join(errs...)
}

func (c *Copier) hook(srcFile string, data any) WriteHook {
	return func(fd io.Writer) error {
		contents, err := fs.ReadFile(c.FS, srcFile)
		if err != nil {
			return err
		}

		if !strings.HasSuffix(srcFile, tmpltExt) {
			_, err = fd.Write(contents)

			return err
		}

		tmplt, err := template.New(path.Base(srcFile)).Delims("{%", "%}").Option("missingkey=error").Parse(string(contents))
		if err != nil {
			return fmt.Errorf("failed to parse template %q: %w", srcFile, err)
		}

		return tmplt.Execute(fd, data)
	}
}
