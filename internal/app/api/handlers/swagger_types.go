package handlers

import (
	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/internal/app/service/reconcile"
	"github.com/fatflowers/duesledger/internal/app/service/statistics"
	"github.com/fatflowers/duesledger/internal/app/service/status"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

type RespRecordPayment struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    paymentlog.RecordResult  `json:"data"`
}

type RespMemberStatus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    MemberStatusResponse     `json:"data"`
}

type RespWriteResult struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    status.WriteResult       `json:"data"`
}

type RespMember struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Member            `json:"data"`
}

type RespListPaymentEntries struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    paymentlog.ScanResponse  `json:"data"`
}

type RespImport struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    paymentlog.ImportResult  `json:"data"`
}

type RespClear struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    map[string]int64         `json:"data"`
}

type RespStatusLog struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    []*models.MemberStatusLog `json:"data"`
}

type RespReconcile struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reconcile.RunResult      `json:"data"`
}

// RespDuesStatistic wraps DuesStatisticResponse in the standard envelope.
type RespDuesStatistic struct {
	Code    response.APIResponseCode         `json:"code"`
	Message string                           `json:"message"`
	Data    statistics.DuesStatisticResponse `json:"data"`
}
