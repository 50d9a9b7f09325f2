package types

// ConsoleInterface defines console output used by the CLI.
type ConsoleInterface interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	ProgressWithTotal(title string, total int) ProgressHandle
	Panel(title, content string)

	CreateTable() TableInterface
}

// StatusHandle updates a status message.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// ProgressHandle updates a progress bar.
type ProgressHandle interface {
	Increment()
	Stop()
}

// TableInterface builds and renders tables.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}
