package exam

type ExamType string

const (
	ExamTypeLevel ExamType = "LEVEL_EXAM"
	ExamTypeFinal ExamType = "FINAL_EXAM"
)

func (t ExamType) IsValid() bool {
	switch t {
	case ExamTypeLevel, ExamTypeFinal:
		return true
	}
	return false
}
