package composer

import (
	"fmt"
	"strings"

	"journalapi/internal/entity"
)

// Books without a known author are named by title alone.
func summaryPrompt(d *Draft) string {
	if d.Domain == entity.DomainBook {
		if strings.TrimSpace(d.Author) == "" {
			return fmt.Sprintf("책 '%s'의 줄거리와 핵심 내용을 요약해서 알려줘", d.SubjectTitle)
		}
		return fmt.Sprintf("'%s' 쓴 '%s'의 줄거리와 핵심 내용을 요약해서 알려줘", d.Author, d.SubjectTitle)
	}
	return fmt.Sprintf("영화 '%s' 줄거리 알려줘", d.SubjectTitle)
}

func rewritePrompt(d *Draft, body string) string {
	if d.Domain == entity.DomainBook {
		subject := fmt.Sprintf("'%s'", d.SubjectTitle)
		if strings.TrimSpace(d.Author) != "" {
			subject = fmt.Sprintf("'%s' 의 '%s'", d.Author, d.SubjectTitle)
		}
		return fmt.Sprintf("이건 내가 읽은 책 %s에 대한 독서 감상문인데, 내가 작성한 부분은 최대한 유지하면서 "+
			"좀 더 풍부하고 깊이 있는 표현을 사용하여 전문가가 쓴 것처럼 자연스럽게 다듬어줘.\n\n---\n\n%s",
			subject, body)
	}
	return fmt.Sprintf("이건 내가 작성한 영화 '%s'에 대한 영화 감상문인데, 내가 작성한 부분은 최대한 유지하면서 "+
		"좀 더 풍부하고 감성적인 표현을 사용하여 전문가가 쓴 것처럼 자연스럽게 다듬어줘.\n\n---\n\n%s",
		d.SubjectTitle, body)
}

// User-facing messages, per domain where the wording differs.
const (
	msgInvalidAccess       = "잘못된 접근입니다. 메인 페이지로 이동합니다."
	msgIncomplete          = "제목과 내용을 모두 입력해주세요."
	msgEmptyBody           = "감상문 내용을 먼저 작성해주세요."
	msgRefineNotConfigured = "API 키가 설정되지 않아 AI 다듬기 기능을 사용할 수 없습니다."
	msgRefineFailed        = "내용을 다듬는 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	msgDiscardDirty        = "작성 중인 내용이 있습니다. 정말로 페이지를 나가시겠습니까?"
)

func descriptionNotConfigured(d entity.Domain) string {
	if d == entity.DomainBook {
		return "API 키가 설정되지 않아 책 소개를 불러올 수 없습니다."
	}
	return "API 키가 설정되지 않아 줄거리를 불러올 수 없습니다."
}

func descriptionFailed(d entity.Domain) string {
	if d == entity.DomainBook {
		return "책 소개를 불러오는 중 오류가 발생했습니다."
	}
	return "줄거리를 불러오는 중 오류가 발생했습니다."
}

func savedMessage(d entity.Domain) string {
	if d == entity.DomainBook {
		return "독서 감상문이 저장되었습니다!"
	}
	return "감상문이 저장되었습니다!"
}
