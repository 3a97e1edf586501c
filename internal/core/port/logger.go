package port

// Fields - набор структурированных полей для записи в лог.
type Fields map[string]interface{}

// LoggerPort - контракт логгера, которым пользуются ядро и адаптеры.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)
	WithFields(fields Fields) LoggerPort
}
