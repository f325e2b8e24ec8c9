package dto

import "time"

// DumpVersion is bumped whenever the dump layout changes incompatibly.
const DumpVersion = 1

// Dump is the document written by export and read by import. The slices are
// listed in the order they have to be restored.
type Dump struct {
	Version         int                 `json:"version"`
	ExportedAt      time.Time           `json:"exported_at"`
	Positions       []PositionDTO       `json:"positions"`
	Users           []UserDTO           `json:"users"`
	Workers         []WorkerDTO         `json:"workers"`
	TaskTypes       []TaskTypeDTO       `json:"task_types"`
	Tasks           []TaskDTO           `json:"tasks"`
	TaskAssignments []TaskAssignmentDTO `json:"task_assignments"`
	Commentaries    []CommentaryDTO     `json:"commentaries"`
}

// Counts summarises how many rows of each table a dump holds.
type Counts struct {
	Positions       int `json:"positions"`
	Users           int `json:"users"`
	Workers         int `json:"workers"`
	TaskTypes       int `json:"task_types"`
	Tasks           int `json:"tasks"`
	TaskAssignments int `json:"task_assignments"`
	Commentaries    int `json:"commentaries"`
}

func (d *Dump) Counts() Counts {
	return Counts{
		Positions:       len(d.Positions),
		Users:           len(d.Users),
		Workers:         len(d.Workers),
		TaskTypes:       len(d.TaskTypes),
		Tasks:           len(d.Tasks),
		TaskAssignments: len(d.TaskAssignments),
		Commentaries:    len(d.Commentaries),
	}
}
