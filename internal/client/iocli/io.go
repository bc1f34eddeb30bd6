package iocli

//go:generate moq -out io_mock.go . IO

// IO абстрагирует ввод и вывод команд CLI
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	// ReadAll читает весь оставшийся ввод (например, текст поста из stdin)
	ReadAll() (string, error)
	Write(p []byte) (n int, err error)
}
