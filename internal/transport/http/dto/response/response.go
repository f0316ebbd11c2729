package response

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope of every successful reply.
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse carries an error kind such as "not_found" plus a readable
// detail.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ListData is one page of rows together with the total number of matches.
type ListData[T any] struct {
	Count int `json:"count"`
	Rows  []T `json:"rows"`
}

type DeletedData struct {
	DeletedCount int64 `json:"deletedCount"`
}

func SuccessResponse(data any) Response {
	return Response{
		Status: statusSuccess,
		Data:   data,
	}
}

// List wraps a page of rows. An empty page encodes rows as [] rather than null.
func List[T any](count int, rows []T) Response {
	if rows == nil {
		rows = []T{}
	}
	return SuccessResponse(ListData[T]{Count: count, Rows: rows})
}

func Deleted(count int64) Response {
	return SuccessResponse(DeletedData{DeletedCount: count})
}

func OK(message string) Response {
	return Response{Status: statusSuccess, Message: message}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  statusError,
		Error:   err,
		Details: details,
	}
}
