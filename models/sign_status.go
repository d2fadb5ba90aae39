package models

// SignStatus статус заявки в процессе подписания
type SignStatus string

const (
	SignStatusUnsigned         SignStatus = "unsigned"
	SignStatusReadyForSign     SignStatus = "readyForSign"
	SignStatusInProcess        SignStatus = "inProcess"
	SignStatusSigned           SignStatus = "signed"
	SignStatusSignedWithErrors SignStatus = "signedWithErrors"
	SignStatusRejected         SignStatus = "rejected"
	SignStatusDelegated        SignStatus = "delegated"
)

var signStatusHumanName = map[SignStatus]string{
	SignStatusUnsigned:         "Не подписана",
	SignStatusReadyForSign:     "На подписании",
	SignStatusInProcess:        "Подписывается",
	SignStatusSigned:           "Подписана",
	SignStatusSignedWithErrors: "Подписана с ошибками",
	SignStatusRejected:         "Отклонена",
	SignStatusDelegated:        "Возвращена автору",
}

func (s SignStatus) ToHuman() string {
	if human, exist := signStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s SignStatus) IsValid() bool {
	_, ok := signStatusHumanName[s]
	return ok
}

// IsEditable документы можно добавлять и удалять
func (s SignStatus) IsEditable() bool {
	return s == SignStatusUnsigned || s == SignStatusDelegated
}

// SignAction переход жизненного цикла заявки
type SignAction string

const (
	SignActionSend               SignAction = "send"               // отправить на подписание
	SignActionSign               SignAction = "sign"               // принять задачу подписания
	SignActionComplete           SignAction = "complete"           // все документы подписаны
	SignActionCompleteWithErrors SignAction = "completeWithErrors" // часть документов не подписана
	SignActionReject             SignAction = "reject"
	SignActionDelegate           SignAction = "delegate"
	SignActionRevert             SignAction = "revert" // откат зависшей обработки
)

type signRule struct {
	from []SignStatus
	to   SignStatus
}

var signRules = map[SignAction]signRule{
	SignActionSend: {
		from: []SignStatus{SignStatusUnsigned, SignStatusDelegated},
		to:   SignStatusReadyForSign,
	},
	SignActionSign: {
		from: []SignStatus{SignStatusReadyForSign, SignStatusSignedWithErrors},
		to:   SignStatusInProcess,
	},
	SignActionComplete: {
		from: []SignStatus{SignStatusInProcess},
		to:   SignStatusSigned,
	},
	SignActionCompleteWithErrors: {
		from: []SignStatus{SignStatusInProcess},
		to:   SignStatusSignedWithErrors,
	},
	// после подписания с ошибками неподписанные документы можно отклонить
	SignActionReject: {
		from: []SignStatus{SignStatusReadyForSign, SignStatusSignedWithErrors},
		to:   SignStatusRejected,
	},
	SignActionDelegate: {
		from: []SignStatus{SignStatusReadyForSign},
		to:   SignStatusDelegated,
	},
	SignActionRevert: {
		from: []SignStatus{SignStatusInProcess},
		to:   SignStatusReadyForSign,
	},
}

// Sources статусы, из которых допустим переход
func (a SignAction) Sources() []SignStatus {
	rule, ok := signRules[a]
	if !ok {
		return nil
	}
	result := make([]SignStatus, len(rule.from))
	copy(result, rule.from)
	return result
}

func (a SignAction) Target() SignStatus {
	return signRules[a].to
}

func (s SignStatus) Allow(a SignAction) bool {
	for _, from := range signRules[a].from {
		if from == s {
			return true
		}
	}
	return false
}

// DocSignStatus статус отдельного документа
type DocSignStatus string

const (
	DocSignStatusUnsigned DocSignStatus = "unsigned"
	DocSignStatusSigned   DocSignStatus = "signed"
	DocSignStatusRejected DocSignStatus = "rejected"
)

var docSignStatusHumanName = map[DocSignStatus]string{
	DocSignStatusUnsigned: "Не подписан",
	DocSignStatusSigned:   "Подписан",
	DocSignStatusRejected: "Отклонен",
}

func (s DocSignStatus) ToHuman() string {
	if human, exist := docSignStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s DocSignStatus) IsValid() bool {
	_, ok := docSignStatusHumanName[s]
	return ok
}

// RecordStatus признак мягкого удаления
type RecordStatus string

const (
	RecordStatusActive  RecordStatus = "active"
	RecordStatusDeleted RecordStatus = "deleted"
)

// JobStatus статус задачи в очереди подписания
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusDone      JobStatus = "done"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s JobStatus) IsOutstanding() bool {
	return s == JobStatusPending || s == JobStatusRunning
}

type SignJobPayload struct {
	RequestID   string `json:"requestId"`
	UserID      string `json:"userId"`
	SignatureID string `json:"signatureId"`
	CourtID     string `json:"courtId"`
}
