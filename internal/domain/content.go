package domain

// ResultKind classifies the outcome of a content fetch
type ResultKind int

const (
	ResultImage ResultKind = iota
	ResultVideo
	ResultNotFound
	ResultInvalidCategory
	ResultServiceError
	ResultTransportFault
)

func (k ResultKind) String() string {
	switch k {
	case ResultImage:
		return "image"
	case ResultVideo:
		return "video"
	case ResultNotFound:
		return "not_found"
	case ResultInvalidCategory:
		return "invalid_category"
	case ResultServiceError:
		return "service_error"
	case ResultTransportFault:
		return "transport_fault"
	}
	return "unknown"
}

// ContentResult is the classified outcome of one fetcher call.
// URL is set for Image and Video, Message for every failure kind.
type ContentResult struct {
	Kind    ResultKind
	URL     string
	Message string
	Err     error
}

// Ok reports whether the result carries media
func (r ContentResult) Ok() bool {
	return (r.Kind == ResultImage || r.Kind == ResultVideo) && r.URL != ""
}

func Image(url string) ContentResult {
	return ContentResult{Kind: ResultImage, URL: url}
}

func Video(url string) ContentResult {
	return ContentResult{Kind: ResultVideo, URL: url}
}

func NotFound() ContentResult {
	return ContentResult{Kind: ResultNotFound, Message: "no matching content", Err: ErrNotFound}
}

func InvalidCategory() ContentResult {
	return ContentResult{Kind: ResultInvalidCategory, Message: "Invalid category selected", Err: ErrInvalidCategory}
}

// ServiceError is a well-formed rejection or malformed reply from a service
func ServiceError(message string, err error) ContentResult {
	return ContentResult{Kind: ResultServiceError, Message: message, Err: err}
}

// TransportFault is a network or timeout failure talking to a service
func TransportFault(message string, err error) ContentResult {
	return ContentResult{Kind: ResultTransportFault, Message: message, Err: err}
}
