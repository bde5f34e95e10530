// Package mockfs provides the fictional filesystem browsed by the
// terminal's ls/cd/cat commands. Content is static set dressing; one
// dotfile hides a challenge flag.
package mockfs

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Node is a file or directory in the simulated tree.
type Node struct {
	Name     string
	Dir      bool
	Content  string
	Children map[string]*Node
}

// FS is an immutable simulated filesystem.
type FS struct {
	root *Node
}

// Entry is one directory listing row.
type Entry struct {
	Name string
	Dir  bool
}

// Hidden reports whether the entry is a dotfile.
func (e Entry) Hidden() bool {
	return strings.HasPrefix(e.Name, ".")
}

// New builds a filesystem from a root directory node.
func New(root *Node) *FS {
	return &FS{root: root}
}

// Default returns the portfolio filesystem.
func Default() *FS {
	return New(dir("/",
		dir("home",
			dir("guest",
				file("readme.txt", "Welcome, visitor.\n\nThis terminal is a playground. Type 'help' for commands,\n'ctf list' for the challenges. Nothing here is real, except\nthe fun.\n"),
				file("resume.txt", "OPERATOR - Systems / Backend\n\n* Builds terminals that pretend to be dangerous\n* Ships Go services that actually work\n* Once fixed a production incident from a karaoke bar\n\nContact: run 'cat contact.txt'\n"),
				file("contact.txt", "mail:  operator@hackterm.example\ngit:   https://git.example/operator\nssh:   ssh guest@this-very-host\n"),
				file(".secrets", "You were not supposed to find this.\n\nflag: shadow_runner_42\n"),
				dir("projects",
					file("hackterm.md", "# hackterm\nThe thing you are looking at. Telnet in, play CTF, leave a\nguestbook entry on the way out.\n"),
					file("ideas.md", "- terminal screensaver that mines absolutely nothing\n- guestbook spam filter powered by vibes\n"),
				),
			),
		),
		dir("etc",
			file("passwd", "root:x:0:0:root:/root:/bin/zsh\noperator:x:1000:1000::/home/operator:/bin/zsh\nguest:x:1001:1001::/home/guest:/bin/rbash\nnobody:x:65534:65534:nobody:/nonexistent:/usr/sbin/nologin\n"),
			file("motd", "All activity on this system is monitored by a goldfish.\n"),
		),
		dir("var",
			dir("log",
				file("auth.log", "Sep 01 03:14 sshd[1337]: Failed password for root from 10.13.3.7\nSep 01 03:14 sshd[1337]: Failed password for root from 10.13.3.7\nSep 01 03:15 sshd[1337]: Disconnecting: Too many authentication failures\n"),
			),
		),
	))
}

func dir(name string, children ...*Node) *Node {
	n := &Node{Name: name, Dir: true, Children: make(map[string]*Node, len(children))}
	for _, c := range children {
		n.Children[c.Name] = c
	}
	return n
}

func file(name, content string) *Node {
	return &Node{Name: name, Content: content}
}

// HomeDir is the starting working directory.
const HomeDir = "/home/guest"

// Resolve joins arg against cwd and cleans the result.
func Resolve(cwd, arg string) string {
	if arg == "" {
		return cwd
	}
	if arg == "~" || strings.HasPrefix(arg, "~/") {
		arg = HomeDir + strings.TrimPrefix(arg, "~")
	}
	if !strings.HasPrefix(arg, "/") {
		arg = cwd + "/" + arg
	}
	return path.Clean(arg)
}

func (f *FS) lookup(p string) (*Node, error) {
	p = path.Clean(p)
	if p == "/" {
		return f.root, nil
	}
	node := f.root
	for _, part := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if !node.Dir {
			return nil, fmt.Errorf("%s: not a directory", p)
		}
		child, ok := node.Children[part]
		if !ok {
			return nil, fmt.Errorf("%s: no such file or directory", p)
		}
		node = child
	}
	return node, nil
}

// List returns the entries of a directory, sorted by name.
func (f *FS) List(p string) ([]Entry, error) {
	node, err := f.lookup(p)
	if err != nil {
		return nil, err
	}
	if !node.Dir {
		return []Entry{{Name: node.Name}}, nil
	}
	out := make([]Entry, 0, len(node.Children))
	for _, c := range node.Children {
		out = append(out, Entry{Name: c.Name, Dir: c.Dir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Read returns a file's contents.
func (f *FS) Read(p string) (string, error) {
	node, err := f.lookup(p)
	if err != nil {
		return "", err
	}
	if node.Dir {
		return "", fmt.Errorf("%s: is a directory", p)
	}
	return node.Content, nil
}

// IsDir reports whether p exists and is a directory.
func (f *FS) IsDir(p string) bool {
	node, err := f.lookup(p)
	return err == nil && node.Dir
}
