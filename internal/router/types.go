package router

// #region task-kind
// TaskKind enumerates the protective actions the router can place. The set
// is closed; every kind maps to a fixed adjustment template.
type TaskKind string

const (
	TaskSprayReduction   TaskKind = "spray_reduction"
	TaskPlantWildflowers TaskKind = "plant_wildflowers"
	TaskAdjustIrrigation TaskKind = "adjust_irrigation"
	TaskDimLights        TaskKind = "dim_lights"
	TaskReduceNoise      TaskKind = "reduce_noise"
)

// #endregion task-kind

// #region task
// Task is one protective action awaiting placement on a hive.
type Task struct {
	ID            string
	Kind          TaskKind
	EcoRewardHint float64 // 0-1 prior on ecological benefit, for logging
}

// #endregion task

// #region routed-task
// RoutedTask records where a task landed and why.
type RoutedTask struct {
	Task     Task
	HiveID   string
	EcoScore float64 // composite eco-impact score of the named hive at routing time
	Accepted bool
	Reason   string
}

// #endregion routed-task
