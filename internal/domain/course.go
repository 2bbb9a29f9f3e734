package domain

import (
	"path"
	"strconv"
	"strings"
)

// Vars is a key/value store used for placeholder resolution in lesson
// content and workspace templates.
type Vars map[string]string

// Merge merges base and override vars (override wins) and returns a new map.
func Merge(base Vars, override Vars) Vars {
	out := Vars{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Course is the manifest-level view of a workspace: ordered units, each an
// ordered run of lessons. Paths are slash-separated and relative to the
// workspace root.
type Course struct {
	Title       string
	Slug        string
	Description string

	// Vars are author-defined variables available to all lessons.
	Vars Vars

	Units []Unit
}

// Unit groups consecutive lessons under one theme.
type Unit struct {
	Name    string
	Dir     string // e.g. "units/unit2"
	Lessons []LessonRef
}

// LessonRef is a lightweight reference to a lesson document on disk.
type LessonRef struct {
	Number int    // 1-based position within the unit
	Title  string
	Dir    string // e.g. "units/unit2/lesson4"
	Path   string // e.g. "units/unit2/lesson4/README.md"
}

// Slug returns the lesson directory base name (e.g. "lesson4").
func (r LessonRef) Slug() string {
	return path.Base(r.Dir)
}

// AllLessons returns every lesson in manifest order.
func (c Course) AllLessons() []LessonRef {
	var out []LessonRef
	for _, u := range c.Units {
		out = append(out, u.Lessons...)
	}
	return out
}

// FindLesson resolves a user-supplied key to a lesson. Accepted keys, in
// order: exact path, exact dir, dir base name ("lesson4"), lesson number
// ("4"), or a case-insensitive title match.
func (c Course) FindLesson(key string) (LessonRef, bool) {
	k := strings.TrimSpace(key)
	if k == "" {
		return LessonRef{}, false
	}

	lessons := c.AllLessons()

	for _, l := range lessons {
		if l.Path == k || l.Dir == k {
			return l, true
		}
	}
	for _, l := range lessons {
		if l.Slug() == k {
			return l, true
		}
	}
	if n, err := strconv.Atoi(k); err == nil {
		for _, l := range lessons {
			if l.Number == n {
				return l, true
			}
		}
	}
	for _, l := range lessons {
		if strings.EqualFold(l.Title, k) {
			return l, true
		}
	}
	return LessonRef{}, false
}

// UnitOf returns the unit containing ref.
func (c Course) UnitOf(ref LessonRef) (Unit, bool) {
	for _, u := range c.Units {
		for _, l := range u.Lessons {
			if l.Dir == ref.Dir {
				return u, true
			}
		}
	}
	return Unit{}, false
}

// Neighbors returns the lessons before and after ref within the unit.
// A nil entry means ref sits at that edge of the unit.
func (u Unit) Neighbors(ref LessonRef) (prev, next *LessonRef) {
	for i := range u.Lessons {
		if u.Lessons[i].Dir != ref.Dir {
			continue
		}
		if i > 0 {
			p := u.Lessons[i-1]
			prev = &p
		}
		if i < len(u.Lessons)-1 {
			n := u.Lessons[i+1]
			next = &n
		}
		return prev, next
	}
	return nil, nil
}

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root  string
	Title string
}
