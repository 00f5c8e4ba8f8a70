package generator

// ru_RU corpus. Entries never contain tabs, commas or line breaks, so the
// flat corpus files need no escaping.

var maleFirstNames = []string{
	"Александр", "Алексей", "Анатолий", "Андрей", "Антон", "Аркадий", "Артем",
	"Борис", "Вадим", "Валентин", "Валерий", "Василий", "Виктор", "Виталий",
	"Владимир", "Владислав", "Вячеслав", "Геннадий", "Георгий", "Глеб",
	"Григорий", "Даниил", "Денис", "Дмитрий", "Евгений", "Егор", "Иван",
	"Игорь", "Илья", "Кирилл", "Константин", "Лев", "Леонид", "Максим",
	"Марк", "Матвей", "Михаил", "Никита", "Николай", "Олег", "Павел",
	"Петр", "Роман", "Руслан", "Святослав", "Семен", "Сергей", "Станислав",
	"Степан", "Тимофей", "Федор", "Филипп", "Юрий", "Ярослав",
}

var femaleFirstNames = []string{
	"Александра", "Алина", "Алла", "Анастасия", "Ангелина", "Анна", "Антонина",
	"Валентина", "Валерия", "Вера", "Вероника", "Виктория", "Галина", "Дарья",
	"Евгения", "Екатерина", "Елена", "Елизавета", "Жанна", "Зинаида", "Зоя",
	"Инна", "Ирина", "Карина", "Кира", "Клавдия", "Ксения", "Лариса", "Лидия",
	"Любовь", "Людмила", "Маргарита", "Марина", "Мария", "Надежда", "Наталья",
	"Нина", "Оксана", "Ольга", "Полина", "Раиса", "Светлана", "София",
	"Тамара", "Татьяна", "Ульяна", "Юлия", "Яна",
}

var maleLastNames = []string{
	"Абрамов", "Алексеев", "Андреев", "Афанасьев", "Белов", "Беляев",
	"Богданов", "Борисов", "Васильев", "Виноградов", "Волков", "Воробьев",
	"Гаврилов", "Голубев", "Григорьев", "Гусев", "Давыдов", "Дмитриев",
	"Егоров", "Жуков", "Зайцев", "Захаров", "Иванов", "Ильин", "Казаков",
	"Калинин", "Киселев", "Ковалев", "Козлов", "Комаров", "Королев",
	"Крылов", "Кузнецов", "Лебедев", "Макаров", "Максимов", "Медведев",
	"Мельников", "Михайлов", "Морозов", "Никитин", "Николаев", "Новиков",
	"Орлов", "Павлов", "Петров", "Попов", "Романов", "Семенов", "Сергеев",
	"Смирнов", "Соколов", "Соловьев", "Степанов", "Тарасов", "Титов",
	"Федоров", "Фролов", "Яковлев", "Ковальский", "Вишневский", "Островский",
}

var femaleLastNames = []string{
	"Абрамова", "Алексеева", "Андреева", "Афанасьева", "Белова", "Беляева",
	"Богданова", "Борисова", "Васильева", "Виноградова", "Волкова", "Воробьева",
	"Гаврилова", "Голубева", "Григорьева", "Гусева", "Давыдова", "Дмитриева",
	"Егорова", "Жукова", "Зайцева", "Захарова", "Иванова", "Ильина", "Казакова",
	"Калинина", "Киселева", "Ковалева", "Козлова", "Комарова", "Королева",
	"Крылова", "Кузнецова", "Лебедева", "Макарова", "Максимова", "Медведева",
	"Мельникова", "Михайлова", "Морозова", "Никитина", "Николаева", "Новикова",
	"Орлова", "Павлова", "Петрова", "Попова", "Романова", "Семенова", "Сергеева",
	"Смирнова", "Соколова", "Соловьева", "Степанова", "Тарасова", "Титова",
	"Федорова", "Фролова", "Яковлева", "Ковальская", "Вишневская", "Островская",
}

var cityPrefixes = []string{"г.", "п.", "к.", "с.", "д.", "клх", "ст."}

var cityNames = []string{
	"Абакан", "Анадырь", "Архангельск", "Астрахань", "Барнаул", "Белгород",
	"Благовещенск", "Брянск", "Великий Новгород", "Владивосток", "Владимир",
	"Волгоград", "Вологда", "Воронеж", "Екатеринбург", "Иваново", "Ижевск",
	"Иркутск", "Казань", "Калининград", "Калуга", "Кемерово", "Киров",
	"Кострома", "Краснодар", "Красноярск", "Курган", "Курск", "Липецк",
	"Магадан", "Майкоп", "Москва", "Мурманск", "Нальчик", "Нижний Новгород",
	"Новосибирск", "Омск", "Орел", "Оренбург", "Пенза", "Пермь",
	"Петрозаводск", "Псков", "Ростов-на-Дону", "Рязань", "Салехард", "Самара",
	"Санкт-Петербург", "Саранск", "Саратов", "Смоленск", "Сочи", "Ставрополь",
	"Сыктывкар", "Тамбов", "Тверь", "Томск", "Тула", "Тюмень", "Ульяновск",
	"Уфа", "Хабаровск", "Ханты-Мансийск", "Чебоксары", "Челябинск", "Чита",
	"Элиста", "Южно-Сахалинск", "Якутск", "Ярославль",
}

var words = []string{
	"а", "без", "более", "больше", "будто", "бы", "был", "была", "быть",
	"вам", "вдруг", "ведь", "весь", "вечер", "взгляд", "видеть", "вместе",
	"вновь", "вокруг", "время", "всегда", "всего", "голова", "головой",
	"город", "готовый", "граница", "даже", "дверь", "деловой", "день",
	"деньги", "дорога", "достоинство", "друг", "дыхание", "единый", "если",
	"естественный", "еще", "желание", "жизнь", "забирать", "заведение",
	"задрать", "зачем", "звезда", "здесь", "земля", "знак", "идея", "изредка",
	"интеллектуальный", "искать", "исследование", "каждый", "как", "какой",
	"карман", "картинка", "кольцо", "команда", "конференция", "коридор",
	"который", "кричать", "лететь", "лиловый", "лицо", "лучше", "мальчишка",
	"медицина", "металл", "мимо", "мир", "много", "могучий", "надежда",
	"написать", "настоящий", "научить", "невозможно", "неудобно", "ныне",
	"обида", "область", "обман", "объяснить", "один", "около", "опасность",
	"основание", "остановить", "отдел", "открытый", "отправиться", "очередной",
	"падать", "палец", "передо", "песня", "писатель", "плод", "победа",
	"поведение", "поезд", "пол", "полевой", "помолчать", "порог", "постоянно",
	"правление", "прежний", "приятель", "провал", "процесс", "пятеро",
	"рабочий", "радость", "развитый", "разуметься", "ребятишки", "рот",
	"рука", "рыбаком", "сбросить", "свежий", "светило", "свой", "сверкающий",
	"сесть", "сила", "слишком", "слово", "смелый", "собеседник", "совет",
	"солнце", "спасть", "спорт", "способ", "сразу", "стакан", "страсть",
	"строительство", "сустав", "сходить", "табак", "тесно", "тысяча",
	"увеличиваться", "угроза", "уничтожение", "уровень", "услать", "устройство",
	"факультет", "функция", "хозяйка", "художественный", "цель", "ведьма",
	"чем", "через", "число", "член", "шлем", "штаб", "экзамен", "эпоха",
	"юный", "язык", "январь", "ягода",
}
