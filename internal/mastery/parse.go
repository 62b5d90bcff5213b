package mastery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// courseLineRe matches one course line of a generated listing, e.g.
// "1. 课程名称：Go 入门，简介：从零开始，难度：入门".
var courseLineRe = regexp.MustCompile(`(?m)^\s*(\d+)[.、]\s*课程名称：(.+?)，简介：(.+?)，难度：(\S+)\s*$`)

var difficultyLabels = map[string]Difficulty{
	"入门":           DifficultyBeginner,
	"初级":           DifficultyBeginner,
	"beginner":     DifficultyBeginner,
	"中级":           DifficultyIntermediate,
	"intermediate": DifficultyIntermediate,
	"高级":           DifficultyAdvanced,
	"advanced":     DifficultyAdvanced,
}

// ParseCourseList extracts courses from generated listing text. Lines that
// do not match the expected format are skipped. Each course gets a fresh id
// and its difficulty's default module list.
func ParseCourseList(text string) []Course {
	matches := courseLineRe.FindAllStringSubmatch(text, -1)

	courses := make([]Course, 0, len(matches))
	for _, match := range matches {
		difficulty, ok := difficultyLabels[strings.ToLower(strings.TrimSpace(match[4]))]
		if !ok {
			difficulty = DifficultyBeginner
		}
		course := Course{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(match[2]),
			Description: strings.TrimSpace(match[3]),
			Difficulty:  difficulty,
		}
		course.EnsureModules()
		courses = append(courses, course)
	}
	return courses
}

var ordinalWords = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5,
	"六": 6, "七": 7, "八": 8, "九": 9, "十": 10,
}

var ordinalRe = regexp.MustCompile(`第([一二三四五六七八九十\d]+)[个项]`)

var selectionPrefixes = []string{"我要学", "学习", "选"}

// ParseSelection resolves free-text input to an index into courses, trying
// in order: a bare 1-based integer, a Chinese ordinal phrase, a prefixed
// request, then a bidirectional substring match against course names.
// Returns -1 when the input is not a selection.
func ParseSelection(input string, courses []Course) int {
	input = strings.TrimSpace(input)
	if input == "" || len(courses) == 0 {
		return -1
	}

	if n, err := strconv.Atoi(input); err == nil {
		return indexIfValid(n, len(courses))
	}

	if match := ordinalRe.FindStringSubmatch(input); match != nil {
		n, ok := ordinalWords[match[1]]
		if !ok {
			n, _ = strconv.Atoi(match[1])
		}
		return indexIfValid(n, len(courses))
	}

	for _, prefix := range selectionPrefixes {
		rest, found := strings.CutPrefix(input, prefix)
		if !found {
			continue
		}
		rest = strings.TrimSpace(rest)
		if n, err := strconv.Atoi(rest); err == nil {
			return indexIfValid(n, len(courses))
		}
		if i := matchCourseName(rest, courses); i >= 0 {
			return i
		}
	}

	return matchCourseName(input, courses)
}

func indexIfValid(n, count int) int {
	if n < 1 || n > count {
		return -1
	}
	return n - 1
}

func matchCourseName(text string, courses []Course) int {
	if text == "" {
		return -1
	}
	for i, course := range courses {
		if strings.Contains(course.Name, text) || strings.Contains(text, course.Name) {
			return i
		}
	}
	return -1
}
