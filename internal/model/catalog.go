package model

import (
	"sort"
	"strings"
)

type Course struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

type Professor struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
}

// FullName returns "Name Surname", skipping empty parts.
func (p Professor) FullName() string {
	return strings.TrimSpace(p.Name + " " + p.Surname)
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Roster maps a course id to the professors teaching it.
// Rosters are treated as immutable values: every method returns a new roster.
type Roster map[string][]Professor

// CourseIDs returns the course ids in lexical order.
func (r Roster) CourseIDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone copies the map and every professor slice.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for course, profs := range r {
		out[course] = append([]Professor(nil), profs...)
	}
	return out
}

// CoursesOf returns the ids of the courses taught by professorID.
func (r Roster) CoursesOf(professorID string) []string {
	var courses []string
	for _, course := range r.CourseIDs() {
		if hasProfessor(r[course], professorID) {
			courses = append(courses, course)
		}
	}
	return courses
}

// Teaches reports whether professorID is listed for courseID.
func (r Roster) Teaches(courseID, professorID string) bool {
	return hasProfessor(r[courseID], professorID)
}

// FreeCount is the number of (course, professor) pairs in the roster.
func (r Roster) FreeCount() int {
	n := 0
	for _, profs := range r {
		n += len(profs)
	}
	return n
}

// IsEmpty is true when no course lists any professor.
func (r Roster) IsEmpty() bool {
	return r.FreeCount() == 0
}

// SelectCourse adds courseID with every professor the full roster lists for it.
func (r Roster) SelectCourse(full Roster, courseID string) Roster {
	out := r.Clone()
	if profs, ok := full[courseID]; ok {
		out[courseID] = append([]Professor(nil), profs...)
	}
	return out
}

func (r Roster) DeselectCourse(courseID string) Roster {
	out := r.Clone()
	delete(out, courseID)
	return out
}

func (r Roster) SelectProfessor(courseID string, p Professor) Roster {
	out := r.Clone()
	if !hasProfessor(out[courseID], p.ID) {
		out[courseID] = append(out[courseID], p)
	}
	return out
}

// DeselectProfessor removes p from courseID and drops the course once it has nobody left.
func (r Roster) DeselectProfessor(courseID string, p Professor) Roster {
	out := r.Clone()
	profs, ok := out[courseID]
	if !ok {
		return out
	}
	out[courseID] = withoutProfessor(profs, p.ID)
	if len(out[courseID]) == 0 {
		delete(out, courseID)
	}
	return out
}

func hasProfessor(profs []Professor, id string) bool {
	for _, p := range profs {
		if p.ID == id {
			return true
		}
	}
	return false
}

func withoutProfessor(profs []Professor, id string) []Professor {
	out := make([]Professor, 0, len(profs))
	for _, p := range profs {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
