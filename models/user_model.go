package models

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleLearner Role = "learner"
)

func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleLearner
}
