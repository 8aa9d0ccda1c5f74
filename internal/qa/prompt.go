package qa

import (
	"fmt"
	"strings"

	"github.com/vitalgraph/mediq/internal/llm"
	"github.com/vitalgraph/mediq/internal/model"
)

const (
	groundedSystem   = "你是一个专业、严谨的医疗信息助手。请根据提供的医疗知识图谱信息，为用户提供准确、专业的医疗健康建议。如果有对话历史，请结合上下文理解用户意图。"
	ungroundedSystem = "你是一个专业、严谨的医疗信息助手。请根据你的医学专业知识，为用户提供准确、专业的医疗健康建议。如果有对话历史，请结合上下文理解用户意图。"
)

// historyContext renders the recent conversation for inclusion in a prompt.
func historyContext(history []model.ChatMessage) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n**对话历史**：\n")
	for _, msg := range lastTurns(history, 6) {
		role := "助手"
		if msg.Role == "user" {
			role = "用户"
		}
		fmt.Fprintf(&sb, "%s：%s\n", role, msg.Content)
	}
	sb.WriteString("\n")
	return sb.String()
}

// groundedPrompt instructs the model to answer from the graph context.
// Literature evidence is returned to the caller alongside the answer rather
// than folded into the prompt.
func groundedPrompt(query, kgContext string, history []model.ChatMessage) string {
	return fmt.Sprintf(`你是一个专业的医疗信息助手。请根据提供的医疗知识图谱信息回答用户的问题。

**重要规则**：
1. 优先使用知识图谱中提供的医学信息来回答问题
2. 回答要准确、专业，但表达要通俗易懂
3. 如果知识图谱中有相关信息，请一定据此回答；如果没有，请说明"暂无相关信息"，并给出合理的建议。
4. 始终提醒用户本系统仅供参考，不能替代医生诊断
5. 对于危险信号（如剧烈头痛、高热、意识改变、胸痛），要强调立即就医
6. 如果有对话历史，请结合上下文理解用户的问题（如代词指代、省略的主语等）
7. 一些基本信息你是可以回复的，比如日期等。

**医疗知识图谱信息**：
%s
%s**当前用户问题**：
%s

如果用户提问的是医学相关的问题，请提供结构化的回答，包括：
1. 简要回答（概括主要信息）
2. 详细说明（分点列出症状/治疗/预防等相关信息）
3. 就医建议（何时需要就医，看什么科室）
4. 注意事项（饮食、用药等）
否则不用提供结构化回答，简要回答即可。

回答：`, kgContext, historyContext(history), query)
}

// ungroundedPrompt is used when the graph yields nothing for the question.
func ungroundedPrompt(query string, history []model.ChatMessage) string {
	return fmt.Sprintf(`你是一个专业的医疗信息助手。

**重要说明**：
当前医疗知识图谱中未找到与用户问题直接相关的信息，请根据你的医学专业知识提供参考建议。

**回答要求**：
1. 回答要准确、专业，但表达要通俗易懂
2. 始终强调本回答仅供参考，不能替代专业医生的诊断和治疗
3. 对于危险信号（如剧烈头痛、高热不退、意识改变、胸痛、呼吸困难等），要强调立即就医
4. 不要在回答中提及"知识图谱"，直接给出专业建议即可
5. 如果有对话历史，请结合上下文理解用户的问题
%s**用户问题**：
%s

如果用户提问的是医学相关的问题，请提供结构化的回答，包括：
1. 简要回答（概括主要信息）
2. 详细说明（分点列出症状/治疗/预防等相关信息）
3. 就医建议（何时需要就医，看什么科室）
4. 注意事项（饮食、用药等）
否则不用提供结构化回答，简要回答即可。

回答：`, historyContext(history), query)
}

// noKGNotice is appended to provider answers generated without graph data.
func noKGNotice(modelName string) string {
	return fmt.Sprintf(`

---
🤖 **来源说明**：知识图谱中未找到相关信息，本回答由 AI 大模型（%s）基于通用医学知识生成。
⚠️ **重要提示**：AI 生成内容仅供参考，可能存在误差，请以专业医生诊断为准。如有身体不适，请及时就医。`, modelName)
}

// buildMessages assembles the chat sent to a provider: system instruction,
// recent history, then the composed prompt as the final user turn.
func buildMessages(req *model.QueryRequest, bundle *ContextBundle) []llm.Message {
	var (
		system string
		prompt string
	)
	if bundle.HasContext() {
		system = groundedSystem
		prompt = groundedPrompt(req.Query, bundle.KGContext, req.History)
	} else {
		system = ungroundedSystem
		prompt = ungroundedPrompt(req.Query, req.History)
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: system}}
	for _, msg := range lastTurns(req.History, 6) {
		role := llm.RoleUser
		if msg.Role == "assistant" {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})
	return messages
}
