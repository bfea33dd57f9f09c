package dashboard

import (
	"context"
	"fmt"
)

// Operator notices, shown once each.
const (
	NoticeRejected      = "ESG 보고서 형식의 PDF 파일만 업로드할 수 있습니다."
	NoticeUploaded      = "업로드 완료!"
	NoticeUploadFailed  = "업로드 실패"
	NoticeDeleted       = "삭제 완료!"
	NoticeDeleteFailed  = "삭제 실패"
	NoticeToggleFailed  = "파일 사용 여부 변경 실패"
	NoticeFetchFailed   = "파일 목록을 불러오지 못했습니다."
	EmptyMessage        = "아직 업로드된 파일이 없습니다."
	toggledNoticeFormat = "%s 파일의 사용 여부가 변경되었습니다."
	confirmDeleteFormat = "%s 파일을 삭제하시겠습니까?"
)

// ToggledNotice is the notice shown after a file's usage flag changes.
func ToggledNotice(name string) string {
	return fmt.Sprintf(toggledNoticeFormat, name)
}

// ConfirmDeletePrompt is the question asked before deleting a file.
func ConfirmDeletePrompt(name string) string {
	return fmt.Sprintf(confirmDeleteFormat, name)
}

// Notifier delivers one-shot notices to the operator.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(ctx context.Context, message string)

func (f NotifyFunc) Notify(ctx context.Context, message string) {
	f(ctx, message)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}
