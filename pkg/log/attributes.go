package log

// Standard attribute keys for dataset-construction logging. The hierarchical
// names keep records filterable across components.
const (
	// ComponentKey identifies the package or component emitting the record.
	ComponentKey = "component"

	// OperationKey names the operation in flight, for example
	// "Dataset.Initialize" or "Binner.Fit".
	OperationKey = "operation"

	// TaskKey names the learning task: "regression", "binary", "multiclass".
	TaskKey = "ebm.task"

	// ClassesKey is the target-class count for classification tasks.
	ClassesKey = "ebm.classes"

	// InstancesKey is the number of training rows being processed.
	InstancesKey = "data.instances"

	// FeaturesKey is the number of feature columns being processed.
	FeaturesKey = "data.features"

	// BinsKey is a bin count, either per feature or a global cap.
	BinsKey = "data.bins"

	// ElementsKey is the element count of a buffer being allocated.
	ElementsKey = "data.elements"
)
