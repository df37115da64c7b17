package service

import "github.com/set-night/subguard/internal/domain"

// User-facing messages.
const (
	textWelcome = "🔍 Я помогу отменить нежелательную подписку.\n\n" +
		"Заполните короткую заявку: ФИО, сервис, банк, маска карты, email и телефон.\n" +
		"В любой момент можно прервать заполнение командой /cancel."
	textMenu         = "Выберите действие:"
	textAskFIO       = "👤 Введите ФИО полностью (например, «Иванов Иван Иванович»):"
	textAskSource    = "📺 Какой сервис списывает деньги?"
	textAskBank      = "🏦 Укажите банк, выпустивший карту:"
	textAskCard      = "💳 Введите маску карты: первые 6 и последние 4 цифры через звёздочку (например, 123456*7890):"
	textAskEmail     = "📧 Укажите email, привязанный к подписке:"
	textAskPhone     = "📱 Укажите номер телефона (например, +79001234567):"
	textAskAdminMsg  = "✉️ Напишите сообщение администратору одним сообщением:"
	textAdminRelayed = "✅ Сообщение передано администратору."
	textAdminFailed  = "❌ Не удалось передать сообщение администратору. Попробуйте позже."
	textAbout        = "ℹ️ Мы помогаем находить и отменять платные подписки: подсказываем, куда обращаться, " +
		"и при необходимости берём отмену на себя.\n\nЧтобы начать, нажмите /start."
	textCancelled      = "Заполнение прервано. Чтобы начать заново, нажмите /start."
	textSaved          = "✅ Заявка принята!"
	textSaveFailed     = "❌ Не удалось сохранить заявку. Отправьте телефон ещё раз."
	textChoosePayment  = "Выберите способ отмены подписки «%s»:"
	textBrokerNotFound = "🔎 Сервис «%s» не найден в каталоге."
	textBrokerList     = "🔎 Найдено несколько сервисов, выберите нужный:"
	textBrokerDetail   = "🔹 %s\nСсылка для отмены: %s\nEmail: %s\nТелефон: %s"
	textSelfService    = "Вы можете отменить подписку самостоятельно:\n\n%s"
	textSelfGeneric    = "Рекомендуем:\n1. Проверить выписку по карте — там указан получатель платежа\n" +
		"2. Позвонить в банк и заблокировать рекуррентные платежи\n3. При необходимости оспорить списание через банк"
	textFindUsage      = "Используйте: /find <название сервиса>"
	textFillFormFirst  = "Сначала заполните заявку — нажмите /start."
	textAlreadyPaid    = "✅ Заявка уже оплачена."
	textInvoiceFailed  = "❌ Не удалось выставить счёт. Попробуйте позже."
	textPaymentDone    = "✅ Оплата %s %s получена! Мы приступаем к отмене подписки."
	textPaymentRepeat  = "✅ Оплата уже была подтверждена ранее."
	textPaymentPending = "✅ Оплата получена, статус заявки обновится в ближайшее время."
	textAssistantDown  = "😔 Сейчас не могу ответить. Попробуйте позже или нажмите /start, чтобы оставить заявку."
	textOffTopic       = "Я отвечаю только на вопросы об отмене подписок и возврате списаний."
	textTextOnly       = "Пожалуйста, отправьте текстовое сообщение."
	textInvoicePending = "🧾 Счёт уже выставлен, оплатите его выше или выберите другой способ оплаты."
	textInternalError  = "❌ Произошла ошибка. Попробуйте ещё раз."

	buttonStartForm    = "📝 Оставить заявку"
	buttonContactAdmin = "✉️ Написать администратору"
	buttonAbout        = "ℹ️ О сервисе"
	buttonPayRUB       = "💳 %d ₽"
	buttonPayStars     = "⭐ %d Stars"
	buttonSelfService  = "🛠 Сделаю сам"
	buttonBack         = "⬅️ Назад"
	buttonUnsubscribe  = "🔗 Отменить подписку"
)

// Assistant instructions.
const (
	// OffTopicMarker is the phrase the assistant is told to answer with when a
	// question falls outside its scope.
	OffTopicMarker = "ВНЕ_ТЕМЫ"

	routerSystemPrompt = "Ты помощник сервиса отмены подписок. Отвечай кратко и только на вопросы " +
		"об отмене платных подписок, поиске неизвестных списаний и возврате денег. " +
		"Если вопрос не относится к этим темам, ответь ровно фразой " + OffTopicMarker + "."

	correctionSystemPrompt = "Ты помогаешь заполнить анкету. Пользователь ввёл значение, не подходящее " +
		"под формат поля. Одним-двумя предложениями объясни, что не так, и покажи правильный формат. " +
		"Не задавай встречных вопросов."
)

// fieldFormats describe expected formats for correction prompts.
var fieldFormats = map[domain.Field]string{
	domain.FieldFIO:    "ФИО из трёх слов, каждое с заглавной буквы, например «Иванов Иван Иванович»",
	domain.FieldSource: "название сервиса, непустая строка",
	domain.FieldBank:   "название банка, непустая строка",
	domain.FieldCard:   "6 цифр, звёздочка и 4 цифры, например 123456*7890",
	domain.FieldEmail:  "адрес электронной почты вида name@example.com",
	domain.FieldPhone:  "от 10 до 15 цифр, можно с «+» в начале",
}
