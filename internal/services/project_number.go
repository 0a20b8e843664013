package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexparks333/AlexPipeline/internal/models"
)

// Project numbers are YYNNNN: a two digit year followed by a four digit sequence.
const sequenceDigits = 4

// NextNumber returns the next free project number for the year of now.
// It is computed from the registered folder names on every call.
func (s *ProjectService) NextNumber(now time.Time) (string, error) {
	prefix := yearPrefix(now)

	var folders []string
	if err := s.db.Model(&models.Project{}).
		Where("folder_name LIKE ?", prefix+"%").
		Pluck("folder_name", &folders).Error; err != nil {
		return "", err
	}
	return nextNumber(prefix, folders), nil
}

func yearPrefix(now time.Time) string {
	return fmt.Sprintf("%02d", now.Year()%100)
}

// nextNumber works for bare numbers ("250003") and named folders ("250003_Show").
func nextNumber(prefix string, folders []string) string {
	highest := 0
	for _, folder := range folders {
		if seq, ok := sequenceOf(prefix, folder); ok && seq > highest {
			highest = seq
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, sequenceDigits, highest+1)
}

// sequenceOf reads the digit run after prefix, up to "_" or the end of the
// name. Runs longer than four digits come from sequences past 9999.
func sequenceOf(prefix, folder string) (int, bool) {
	if !strings.HasPrefix(folder, prefix) {
		return 0, false
	}
	digits, _, _ := strings.Cut(folder[len(prefix):], "_")
	if len(digits) < sequenceDigits {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	seq, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return seq, true
}
