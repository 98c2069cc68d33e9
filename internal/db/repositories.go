package db

import "gorm.io/gorm"

type Repositories struct {
	Accounts    *AccountRepository
	Tasks       *TaskRepository
	Assignments *AssignmentRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Accounts:    NewAccountRepository(database),
		Tasks:       NewTaskRepository(database),
		Assignments: NewAssignmentRepository(database),
	}
}
