package chat

import (
	"context"
	"fmt"
	"strings"

	"recipe-chat/internal/core/backend"
	"recipe-chat/internal/core/suggestion"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Confirm 確認待確認建議並依類型套用
//
// 食材修改確認後不會回到閒置，而是產生「載入此菜色」的新建議。
// 後端失敗時在對話中顯示錯誤訊息，狀態回到閒置，不自動重試。
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return common.ErrNoPendingSuggestion
	}
	if s.flags.Any() {
		s.mu.Unlock()
		return common.ErrSessionBusy
	}
	sugg := s.pending
	s.busyLocked(func(f *Flags) { f.ConfirmingDish = true })
	t := s.turnLocked("")
	s.mu.Unlock()

	common.LogInfo("確認建議",
		zap.String("session_id", s.id),
		zap.String("suggestion_type", string(sugg.Kind())),
	)

	var out outcome
	switch x := sugg.(type) {
	case *suggestion.DishSuggestion:
		out = s.confirmDish(ctx, t, x)
	case *suggestion.PreferenceSuggestion:
		out = s.confirmPreference(ctx, t, x)
	case *suggestion.PlateStyleSuggestion:
		out = s.confirmPlateStyle(ctx, t, x)
	case *suggestion.ModificationSuggestion:
		out = s.confirmModification(ctx, t, x)
	default:
		out = failure(msgModifyFailed, fmt.Errorf("unsupported suggestion %T", sugg))
	}

	s.mu.Lock()
	if !s.currentLocked(t.generation) {
		s.mu.Unlock()
		return nil
	}
	s.busyLocked(func(f *Flags) {
		f.ConfirmingDish = false
		f.GeneratingDish = false
		f.ProcessingModification = false
	})
	s.pending = nil
	loaded := s.applyLocked(out)
	s.mu.Unlock()

	if loaded != nil {
		s.generateImage(loaded, t.generation)
	}
	return nil
}

// confirmDish 有完整菜色時直接載入，只有菜名時請後端產生，都沒有時隨機產生
func (s *Session) confirmDish(ctx context.Context, t turn, x *suggestion.DishSuggestion) outcome {
	if x.CompleteDish != nil {
		return outcome{load: x.CompleteDish.ToDish(), tagsFrom: x.OriginalUserMessage}
	}

	if strings.TrimSpace(x.DishName) != "" {
		detail := x.Modification
		if strings.TrimSpace(detail) == "" {
			detail = x.OriginalUserMessage
		}
		return s.generate(ctx, t, backend.GenerateDishRequest{
			DishName:            x.DishName,
			Preferences:         t.prefs,
			ConversationContext: joinContext(t.summary, detail),
		}, x.OriginalUserMessage)
	}

	return s.generate(ctx, t, backend.GenerateDishRequest{}, x.OriginalUserMessage)
}

// confirmPreference 將類別值轉為顯示名稱併入結構化偏好，再以合併後的偏好產生新菜色
func (s *Session) confirmPreference(ctx context.Context, t turn, x *suggestion.PreferenceSuggestion) outcome {
	merged := t.base.Merge(preferencesFor(x.Category, s.deps.Lexicon.DisplayName(x.Value)))
	out := s.generate(ctx, t, backend.GenerateDishRequest{
		Preferences:         s.store.Wanted(merged),
		ConversationContext: t.summary,
	}, "")
	out.prefs = &merged
	return out
}

// confirmPlateStyle 有菜色時改變擺盤並詢問是否查看食譜，否則以擺盤偏好產生新菜色
func (s *Session) confirmPlateStyle(ctx context.Context, t turn, x *suggestion.PlateStyleSuggestion) outcome {
	label := s.deps.Lexicon.DisplayName(x.Style)
	if t.dish == nil {
		merged := t.base.Merge(preferencesFor(suggestion.KindPlateStyle, label))
		out := s.generate(ctx, t, backend.GenerateDishRequest{
			Preferences:         s.store.Wanted(merged),
			ConversationContext: t.summary,
		}, "")
		out.prefs = &merged
		return out
	}

	modification := x.Modification
	if strings.TrimSpace(modification) == "" {
		modification = fmt.Sprintf("Serve it as a %s", x.Style)
	}
	res, err := s.modify(ctx, t, modification)
	if err != nil {
		return failure(msgModifyFailed, nil)
	}

	summary := strings.TrimSpace(res.Summary)
	if summary == "" {
		summary = fmt.Sprintf("Your %s is now served as a %s.", t.dish.Title, label)
	}
	out := outcome{
		pending: &suggestion.ModificationSuggestion{
			Text:           summary + " " + msgViewRecipe,
			Category:       suggestion.KindIngredient,
			ShowViewRecipe: true,
		},
	}
	// 已載入的菜色直接更新，「查看食譜」只負責切換頁面
	if t.current != nil {
		out.replace = res.UpdatedDish.Clone()
	} else {
		out.pendingDish = res.UpdatedDish.Clone()
	}
	return out
}

// confirmModification 已套用的修改直接載入；否則呼叫修改 API，結果成為「載入此菜色」建議
func (s *Session) confirmModification(ctx context.Context, t turn, x *suggestion.ModificationSuggestion) outcome {
	if x.ShowViewRecipe {
		if t.pendingDish != nil {
			return outcome{load: t.pendingDish}
		}
		return outcome{navigate: NavigateDish}
	}

	if strings.TrimSpace(x.Modification) == "" {
		return failure(msgModifyFailed, nil)
	}

	// 沒有可修改的菜色時，以修改內容產生新菜色
	if t.dish == nil {
		return s.generate(ctx, t, backend.GenerateDishRequest{
			Preferences:         t.prefs,
			ConversationContext: joinContext(t.summary, x.Modification),
		}, x.Modification)
	}

	res, err := s.modify(ctx, t, x.Modification)
	if err != nil {
		return failure(msgModifyFailed, nil)
	}

	updated := res.UpdatedDish.Clone()
	out := outcome{
		pendingDish: updated,
		pending: &suggestion.DishSuggestion{
			Text:                loadText(updated.Title),
			CompleteDish:        common.CompleteDishFrom(updated),
			DishName:            updated.Title,
			Modification:        x.Modification,
			OriginalUserMessage: x.Modification,
		},
	}
	if summary := strings.TrimSpace(res.Summary); summary != "" {
		out.replies = []reply{{text: summary}}
	}
	return out
}

// generate 請後端產生菜色並載入
func (s *Session) generate(ctx context.Context, t turn, req backend.GenerateDishRequest, tagsFrom string) outcome {
	s.setFlags(t.generation, func(f *Flags) { f.GeneratingDish = true })

	dish, err := s.deps.Backend.GenerateDish(ctx, req)
	if err != nil {
		common.LogError("菜色產生失敗", zap.String("session_id", s.id), zap.Error(err))
		return failure(msgGenerateFailed, nil)
	}
	return outcome{load: dish, tagsFrom: tagsFrom}
}

// modify 呼叫修改 API
func (s *Session) modify(ctx context.Context, t turn, modification string) (*common.ModifyResult, error) {
	s.setFlags(t.generation, func(f *Flags) { f.ProcessingModification = true })

	res, err := s.deps.Backend.ModifyRecipe(ctx, t.dish, modification)
	if err != nil {
		common.LogError("菜色修改失敗",
			zap.String("session_id", s.id),
			zap.String("dish_id", t.dish.ID),
			zap.Error(err),
		)
		return nil, err
	}
	common.LogInfo("菜色已修改",
		zap.String("session_id", s.id),
		zap.String("dish_id", t.dish.ID),
		zap.Bool("transformative", res.IsTransformative),
	)
	return res, nil
}

// preferencesFor 建議類別對應的結構化偏好欄位
func preferencesFor(kind suggestion.Kind, value string) common.Preferences {
	switch kind {
	case suggestion.KindDietary:
		return common.Preferences{DietaryRestrictions: []string{value}}
	case suggestion.KindCuisine:
		return common.Preferences{Cuisines: []string{value}}
	case suggestion.KindClassicDish:
		return common.Preferences{ClassicDishes: []string{value}}
	case suggestion.KindIngredientPreference:
		return common.Preferences{IngredientPreferences: []string{value}}
	case suggestion.KindPlateStyle:
		return common.Preferences{PlateStyles: []string{value}}
	}
	return common.Preferences{}
}
