package bot

// Menu labels double as routing keys for incoming text messages, so they
// must match the reply keyboard exactly.
const (
	menuLibrary  = "📚 Библиотека"
	menuEvents   = "🗓️ Мероприятия"
	menuAbout    = "❓ О клубе"
	menuContacts = "📞 Контакты"
)

const greetingText = "Здравствуй! Мы рады видеть тебя в литературном клубе «.МОНЕ».\n\n" +
	"Здесь мы читаем, обсуждаем и находим друзей среди строк великих книг.\n" +
	"Выбери действие ниже:\n" +
	"📚 Библиотека — книги в электронном формате для наших встреч.\n" +
	"🗓️ Мероприятия — расписание вечеров и запись.\n" +
	"✨ О клубе — как, зачем и для кого мы это создали.\n" +
	"📞 Контакты — где нас найти и как связаться."

const aboutText = "Наш клуб — это пространство честных разговоров, глубоких мыслей и открытых людей.\n" +
	"Мы собираемся, чтобы читать книги, обсуждать их и открывать новое в знакомых произведениях.\n\n" +
	"📍 *Место встреч:*\n" +
	"ул. Адмирала Трибуца, 5, Санкт-Петербург\n" +
	"Кафе «.МОНЕ» — уют, тёплый свет и атмосфера, в которой хочется говорить о важном.\n\n" +
	"📘 *Формат встреч:*\n" +
	"• выбираем книгу и встречаемся для её обсуждения через 14 дней\n" +
	"• читаем самостоятельно\n" +
	"• мы не ищем «правильных» ответов — мы ищем свои\n" +
	"• мы не соревнуемся в эрудиции — мы делимся впечатлениями\n" +
	"• мы спорим, смеёмся, молчим и открываем книгу и себя с новой стороны\n\n" +
	"*Простое правило:* уважение к слову и друг к другу.\n" +
	"Здесь можно не соглашаться, можно сомневаться, можно говорить «я не понял» или «я плакал на этой странице».\n" +
	"Здесь можно быть собой — читающим, думающим, чувствующим.\n\n" +
	"*Мы создали этот круг для тех, кто:*\n" +
	"• любит, когда после книги хочется с кем-то поговорить\n" +
	"• верит, что кофе и книга — идеальное сочетание\n" +
	"• ищет не просто хобби, а своих людей и глубину\n\n" +
	"💬 *Чат для обсуждений:*\n" +
	"[Telegram-чат клуба](https://t.me/+OqJlHFxPonEzNTBi)\n\n" +
	"Добро пожаловать — здесь тебя услышат."

const contactsText = "📍 *МОНЕ*\n" +
	"ул. Адмирала Трибуца, 5, Санкт-Петербург\n\n" +
	"⏰ *Часы работы:*\n" +
	"Пн–Вс: 9:00–22:00\n\n" +
	"🔗 *Ссылки:*\n" +
	"• [Telegram-канал](https://t.me/monecoffee)\n" +
	"• [Instagram](https://www.instagram.com/mone.coffee.spb?igsh=ZWtsNG45NnJjNnNr)\n" +
	"• +79992361626 Телеграм/WhatsApp\n"

// Club cafe coordinates sent with the contact card.
const (
	cafeLat = 59.853700
	cafeLng = 30.144926
)

const (
	textEmptyLibrary   = "Библиотека пуста 📚"
	textChooseBook     = "Выбери книгу:"
	textNoEvents       = "Пока встреч нет."
	textBookNotFound   = "❗ Книга не найдена в библиотеке."
	textCoverFailed    = "⚠️ Не удалось загрузить обложку"
	textUseMenu        = "Выбери действие из меню"
	textHereIsYourBook = "📖 *Вот ваша книга:*"
	textPDFMissing     = "PDF недоступен."
	textFileMissing    = "Файл недоступен."
	textRegistered     = "Вы записаны на встречу по книге «%s»."
	textAlreadyGoing   = "Вы уже записаны на эту встречу."
)
